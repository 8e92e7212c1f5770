package dto

import (
	"fmt"
	"time"

	"innkeep/shared/daterange"
)

const (
	EventBookingCreated = "booking.created"
	EventTaskCompleted  = "task.completed"
)

// Event is the envelope published on the domain event topic.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type BookingCreatedEvent struct {
	BookingID    string    `json:"booking_id"`
	RoomID       string    `json:"room_id"`
	RoomLabel    string    `json:"room_label"`
	GuestName    string    `json:"guest_name"`
	Platform     string    `json:"platform"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
}

func (e BookingCreatedEvent) Text() string {
	return fmt.Sprintf("[New booking]\nRoom: %s\nGuest: %s\nCheck-in: %s",
		e.RoomLabel, e.GuestName, daterange.Format(e.CheckInDate))
}

type TaskCompletedEvent struct {
	TaskID          string `json:"task_id"`
	RoomID          string `json:"room_id"`
	RoomNumber      string `json:"room_number"`
	HousekeeperID   string `json:"housekeeper_id"`
	HousekeeperName string `json:"housekeeper_name"`
	ImageURL        string `json:"image_url"`
}

func (e TaskCompletedEvent) Text() string {
	return fmt.Sprintf("[Task completed]\nRoom: %s\nHousekeeper: %s\nPhoto uploaded, please verify.",
		e.RoomNumber, e.HousekeeperName)
}
