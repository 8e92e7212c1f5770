package mocks

import (
	"sync"

	"innkeep/infras/otel"
)

// Scope discards spans but keeps what it was told so tests can inspect it.
type Scope struct {
	mu     sync.Mutex
	Events []string
	Errors []error
	ended  bool
}

func (s *Scope) AddEvent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Events = append(s.Events, name)
}

func (s *Scope) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
}

func (s *Scope) SetAttribute(_ string, _ any) {}

func (s *Scope) SetAttributes(_ map[string]any) {}

func (s *Scope) TraceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Errors = append(s.Errors, err)
}

func (s *Scope) TraceIfError(err *error) {
	if err != nil && *err != nil {
		s.TraceError(*err)
	}
}

func (s *Scope) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ended
}

func NewScope() *Scope {
	return &Scope{}
}

var _ otel.Scope = (*Scope)(nil)
