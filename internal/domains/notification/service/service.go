// Package service fans operator notifications out to LINE and the domain event topic.
// Delivery is best-effort: failures are logged and never reach the caller.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/line"
	"innkeep/infras/otel"
	"innkeep/internal/domains/notification/model/dto"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	BookingCreated(ctx context.Context, event dto.BookingCreatedEvent)
	TaskCompleted(ctx context.Context, event dto.TaskCompletedEvent)
}

type serviceImpl struct {
	line  line.Notifier
	kafka kafka.Client
	topic string
	otel  otel.Otel
}

func New(cfg *config.Config, line line.Notifier, kafka kafka.Client, otel otel.Otel) Notification {
	return &serviceImpl{
		line:  line,
		kafka: kafka,
		topic: cfg.Kafka.TopicEvents,
		otel:  otel,
	}
}

func (s *serviceImpl) BookingCreated(ctx context.Context, event dto.BookingCreatedEvent) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookingCreated")
	defer scope.End()

	scope.SetAttribute("booking.id", event.BookingID)

	s.push(ctx, event.Text())
	s.publish(ctx, event.BookingID, dto.EventBookingCreated, event)
}

func (s *serviceImpl) TaskCompleted(ctx context.Context, event dto.TaskCompletedEvent) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TaskCompleted")
	defer scope.End()

	scope.SetAttribute("task.id", event.TaskID)

	s.push(ctx, event.Text())
	s.publish(ctx, event.TaskID, dto.EventTaskCompleted, event)
}

func (s *serviceImpl) push(ctx context.Context, text string) {
	err := s.line.Push(ctx, text)

	switch {
	case err == nil:
	case errors.Is(err, line.ErrNotConfigured):
		log.Warn().Msg("operator notification skipped, LINE not configured")
	default:
		log.Error().Err(err).Msg("failed to push operator notification")
	}
}

func (s *serviceImpl) publish(ctx context.Context, key, eventType string, data any) {
	if !s.kafka.Enabled() {
		return
	}

	message := kafka.Message{
		Key: key,
		Value: dto.Event{
			Type:       eventType,
			OccurredAt: timezone.Now(),
			Data:       data,
		},
	}

	if err := s.kafka.SendMessages(ctx, s.topic, message); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to publish domain event")
	}
}
