package dto

import (
	"io"
	"time"

	"innkeep/internal/domains/task/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"
)

const (
	MessageGenerated   = "Task generation complete"
	MessageNoCheckouts = "No bookings checking out today"
)

type CompleteTaskRequest struct {
	TaskID   string `json:"taskId"   validate:"required,uuid"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// ProofFile is an uploaded photo on its way to object storage.
type ProofFile struct {
	Name        string
	ContentType string `validate:"required,oneof=image/jpeg image/jpg image/png image/webp"`
	Size        int64  `validate:"gt=0"`
	Body        io.Reader
}

type UploadProofResponse struct {
	URL string `json:"url"`
}

type GenerateResult struct {
	Message string   `json:"message"`
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

type TaskResponse struct {
	ID              string  `json:"id"`
	BookingID       *string `json:"booking_id,omitempty"`
	RoomID          string  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	RoomType        string  `json:"room_type"`
	Status          string  `json:"status"`
	HousekeeperID   *string `json:"housekeeper_id,omitempty"`
	HousekeeperName *string `json:"housekeeper_name,omitempty"`
	ImageURL        *string `json:"image_url,omitempty"`
	ScheduledDate   string  `json:"scheduled_date"`
	CompletedAt     *string `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *TaskResponse) FromModel(model model.Task) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Status = model.Status
	r.HousekeeperID = model.HousekeeperID
	r.HousekeeperName = model.HousekeeperName
	r.ImageURL = model.ImageURL
	r.ScheduledDate = daterange.Format(model.ScheduledDate)
	r.CompletedAt = formatTime(model.CompletedAt)
	r.Metadata.FromModel(model.Metadata)
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.Task, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tasks = make([]TaskResponse, len(models))
	for i, mod := range models {
		r.Tasks[i].FromModel(mod)
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
