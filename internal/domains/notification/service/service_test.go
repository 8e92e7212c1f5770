package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"innkeep/config"
	"innkeep/infras/kafka"
	kafkaMocks "innkeep/infras/kafka/mocks"
	"innkeep/infras/line"
	lineMocks "innkeep/infras/line/mocks"
	"innkeep/infras/otel/mocks"
	"innkeep/internal/domains/notification/model/dto"
	"innkeep/internal/domains/notification/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Notification, *lineMocks.MockNotifier, *kafkaMocks.MockClient) {
	ctrl := gomock.NewController(t)

	notifier := lineMocks.NewMockNotifier(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.TopicEvents = "innkeep.events"

	return service.New(cfg, notifier, events, mocks.NewOtel()), notifier, events
}

func TestBookingCreated(t *testing.T) {
	svc, notifier, events := newService(t)

	event := dto.BookingCreatedEvent{
		BookingID:   "b-1",
		RoomLabel:   "101 (Double)",
		GuestName:   "Alice",
		CheckInDate: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	}

	notifier.EXPECT().Push(gomock.Any(), "[New booking]\nRoom: 101 (Double)\nGuest: Alice\nCheck-in: 2026-02-14").Return(nil)
	events.EXPECT().Enabled().Return(true)
	events.EXPECT().SendMessages(gomock.Any(), "innkeep.events", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, messages ...kafka.Message) error {
			assert.Len(t, messages, 1)
			assert.Equal(t, "b-1", messages[0].Key)

			envelope, ok := messages[0].Value.(dto.Event)
			assert.True(t, ok)
			assert.Equal(t, dto.EventBookingCreated, envelope.Type)

			return nil
		})

	svc.BookingCreated(context.Background(), event)
}

func TestTaskCompleted_FailuresAreSwallowed(t *testing.T) {
	svc, notifier, events := newService(t)

	event := dto.TaskCompletedEvent{TaskID: "t-1", RoomNumber: "101", HousekeeperName: "Amy"}

	notifier.EXPECT().Push(gomock.Any(), "[Task completed]\nRoom: 101\nHousekeeper: Amy\nPhoto uploaded, please verify.").
		Return(errors.New("line api unavailable"))
	events.EXPECT().Enabled().Return(true)
	events.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	assert.NotPanics(t, func() { svc.TaskCompleted(context.Background(), event) })
}

func TestUnconfiguredChannels(t *testing.T) {
	svc, notifier, events := newService(t)

	notifier.EXPECT().Push(gomock.Any(), gomock.Any()).Return(line.ErrNotConfigured)
	events.EXPECT().Enabled().Return(false)

	svc.TaskCompleted(context.Background(), dto.TaskCompletedEvent{TaskID: "t-1"})
}
