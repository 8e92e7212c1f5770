package model

import (
	"slices"
	"time"

	"innkeep/shared/model"
)

const (
	TableName  = "tasks"
	EntityName = "task"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldRoomID        = "room_id"
	FieldStatus        = "status"
	FieldHousekeeperID = "housekeeper_id"
	FieldImageURL      = "image_url"
	FieldScheduledDate = "scheduled_date"
	FieldCompletedAt   = "completed_at"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusVerified  = "verified"
)

const (
	ActionClaim    = "claim"
	ActionComplete = "complete"
	ActionVerify   = "verify"
	ActionReject   = "reject"
)

const (
	CacheGetTask    = "task:get"
	CacheGetAllTask = "task:gets"
	CacheCountTask  = "task:count"
)

type transition struct {
	from []string
	to   string
}

var transitions = map[string]transition{
	ActionClaim:    {from: []string{StatusPending}, to: StatusAccepted},
	ActionComplete: {from: []string{StatusAccepted}, to: StatusCompleted},
	ActionVerify:   {from: []string{StatusCompleted}, to: StatusVerified},
	ActionReject:   {from: []string{StatusCompleted}, to: StatusPending},
}

func ValidTransition(action, fromStatus string) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}

	return slices.Contains(t.from, fromStatus)
}

// From is the single status an action may leave.
func From(action string) string {
	return transitions[action].from[0]
}

func To(action string) string {
	return transitions[action].to
}

// Task is a housekeeping work item joined with its room and, once claimed, its housekeeper.
type Task struct {
	ID              string     `db:"id"`
	BookingID       *string    `db:"booking_id"`
	RoomID          string     `db:"room_id"`
	Status          string     `db:"status"`
	HousekeeperID   *string    `db:"housekeeper_id"`
	ImageURL        *string    `db:"image_url"`
	ScheduledDate   time.Time  `db:"scheduled_date"`
	CompletedAt     *time.Time `db:"completed_at"`
	RoomNumber      string     `db:"room_number"      table:"rooms"`
	RoomType        string     `db:"room_type"        table:"rooms"`
	HousekeeperName *string    `db:"housekeeper_name" table:"staff" column:"full_name"`
	model.Metadata
}

func (Task) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = tasks.room_id LEFT JOIN staff ON staff.id = tasks.housekeeper_id"
}

func (t Task) AssignedTo(housekeeperID string) bool {
	return t.HousekeeperID != nil && *t.HousekeeperID == housekeeperID
}
