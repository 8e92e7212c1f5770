package dto

import (
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber     string  `json:"room_number"      validate:"required,max=20"`
	RoomType       string  `json:"room_type"        validate:"omitempty,max=100"`
	Status         string  `json:"status"           validate:"omitempty,oneof=clean dirty occupied maintenance"`
	ICalBookingURL *string `json:"ical_booking_url" validate:"omitempty,url"`
	ICalAgodaURL   *string `json:"ical_agoda_url"   validate:"omitempty,url"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	status := model.StatusClean
	if c.Status != "" {
		status = c.Status
	}

	return model.Room{
		ID:             uuid.NewString(),
		RoomNumber:     c.RoomNumber,
		RoomType:       c.RoomType,
		Status:         status,
		ICalBookingURL: emptyToNil(c.ICalBookingURL),
		ICalAgodaURL:   emptyToNil(c.ICalAgodaURL),
		Metadata:       gModel.NewMetadata(user),
	}
}

type UpdateRoomRequest struct {
	RoomNumber     string  `db:"room_number"      json:"room_number"      validate:"omitempty,max=20"`
	RoomType       string  `db:"room_type"        json:"room_type"        validate:"omitempty,max=100"`
	Status         string  `db:"status"           json:"status"           validate:"omitempty,oneof=clean dirty occupied maintenance"`
	ICalBookingURL *string `db:"ical_booking_url" json:"ical_booking_url" validate:"omitempty,url"`
	ICalAgodaURL   *string `db:"ical_agoda_url"   json:"ical_agoda_url"   validate:"omitempty,url"`
}

// IsEmpty reports whether the request carries no change at all.
func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.RoomNumber == "" && u.RoomType == "" && u.Status == "" && u.ICalBookingURL == nil && u.ICalAgodaURL == nil
}

type RoomResponse struct {
	ID             string  `json:"id"`
	RoomNumber     string  `json:"room_number"`
	RoomType       string  `json:"room_type"`
	Status         string  `json:"status"`
	ICalBookingURL *string `json:"ical_booking_url,omitempty"`
	ICalAgodaURL   *string `json:"ical_agoda_url,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Status = model.Status
	r.ICalBookingURL = model.ICalBookingURL
	r.ICalAgodaURL = model.ICalAgodaURL
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}

	return value
}
