package dto

// SyncResult aggregates one or many feed runs. Errors never abort a run.
type SyncResult struct {
	Processed int      `json:"processed"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors"`
}

func (s *SyncResult) Merge(other SyncResult) {
	s.Processed += other.Processed
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Errors = append(s.Errors, other.Errors...)
}

func (s *SyncResult) Changed() bool {
	return s.Inserted+s.Updated > 0
}

type ExportResponse struct {
	FileName    string
	ContentType string
	Content     string
}
