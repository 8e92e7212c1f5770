package dto

import (
	"innkeep/internal/domains/booking/model"
	"innkeep/shared"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"

	"github.com/google/uuid"
)

// AdmitBookingRequest is a guest self-service booking.
type AdmitBookingRequest struct {
	RoomID       string `json:"room_id"        validate:"required,uuid"`
	GuestName    string `json:"guest_name"     validate:"required,max=100"`
	Email        string `json:"email"          validate:"omitempty,email,max=100"`
	Phone        string `json:"phone"          validate:"required,max=30"`
	CheckInDate  string `json:"check_in_date"  validate:"required,isodate"`
	CheckOutDate string `json:"check_out_date" validate:"required,isodate"`
}

func (a *AdmitBookingRequest) ToCreateRequest() CreateBookingRequest {
	return CreateBookingRequest{
		RoomID:       a.RoomID,
		GuestName:    a.GuestName,
		GuestEmail:   a.Email,
		GuestPhone:   a.Phone,
		CheckInDate:  a.CheckInDate,
		CheckOutDate: a.CheckOutDate,
		Platform:     model.PlatformOfficial,
		Status:       model.StatusConfirmed,
	}
}

// CreateBookingRequest is an administrator-entered booking.
type CreateBookingRequest struct {
	RoomID       string `json:"room_id"        validate:"required,uuid"`
	GuestName    string `json:"guest_name"     validate:"required,max=100"`
	GuestEmail   string `json:"guest_email"    validate:"omitempty,email,max=100"`
	GuestPhone   string `json:"guest_phone"    validate:"omitempty,max=30"`
	CheckInDate  string `json:"check_in_date"  validate:"required,isodate"`
	CheckOutDate string `json:"check_out_date" validate:"required,isodate"`
	Platform     string `json:"platform"       validate:"omitempty,oneof=official booking agoda walk-in other"`
	Status       string `json:"status"         validate:"omitempty,oneof=confirmed checked_in checked_out"`
}

func (c *CreateBookingRequest) Range() (daterange.Range, error) {
	return daterange.Parse(c.CheckInDate, c.CheckOutDate)
}

func (c *CreateBookingRequest) ToModel(user string, stay daterange.Range) model.Booking {
	platform := model.PlatformOfficial
	if c.Platform != "" {
		platform = c.Platform
	}

	status := model.StatusConfirmed
	if c.Status != "" {
		status = c.Status
	}

	return model.Booking{
		ID:           uuid.NewString(),
		RoomID:       c.RoomID,
		GuestName:    c.GuestName,
		GuestEmail:   optional(c.GuestEmail),
		GuestPhone:   optional(c.GuestPhone),
		CheckInDate:  stay.Start,
		CheckOutDate: stay.End,
		Platform:     platform,
		Status:       status,
		Metadata:     gModel.NewMetadata(user),
	}
}

type UpdateBookingRequest struct {
	RoomID       string `json:"room_id"        validate:"omitempty,uuid"`
	GuestName    string `json:"guest_name"     validate:"omitempty,max=100"`
	GuestEmail   string `json:"guest_email"    validate:"omitempty,email,max=100"`
	GuestPhone   string `json:"guest_phone"    validate:"omitempty,max=30"`
	CheckInDate  string `json:"check_in_date"  validate:"omitempty,isodate"`
	CheckOutDate string `json:"check_out_date" validate:"omitempty,isodate"`
	Platform     string `json:"platform"       validate:"omitempty,oneof=official booking agoda walk-in other"`
	Status       string `json:"status"         validate:"omitempty,oneof=confirmed cancelled checked_in checked_out"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return *u == UpdateBookingRequest{}
}

// Apply merges the request into current and returns the changed columns.
func (u *UpdateBookingRequest) Apply(current *model.Booking, stay daterange.Range) map[string]any {
	fields := map[string]any{}

	set := func(field, value string, target *string) {
		if value == "" || value == *target {
			return
		}

		*target = value
		fields[field] = value
	}

	set(model.FieldRoomID, u.RoomID, &current.RoomID)
	set(model.FieldGuestName, u.GuestName, &current.GuestName)
	set(model.FieldPlatform, u.Platform, &current.Platform)
	set(model.FieldStatus, u.Status, &current.Status)

	if u.GuestEmail != "" {
		current.GuestEmail = optional(u.GuestEmail)
		fields[model.FieldGuestEmail] = u.GuestEmail
	}

	if u.GuestPhone != "" {
		current.GuestPhone = optional(u.GuestPhone)
		fields[model.FieldGuestPhone] = u.GuestPhone
	}

	if !stay.Start.Equal(current.CheckInDate) {
		current.CheckInDate = stay.Start
		fields[model.FieldCheckInDate] = daterange.Format(stay.Start)
	}

	if !stay.End.Equal(current.CheckOutDate) {
		current.CheckOutDate = stay.End
		fields[model.FieldCheckOutDate] = daterange.Format(stay.End)
	}

	return fields
}

type BookingResponse struct {
	ID           string  `json:"id"`
	RoomID       string  `json:"room_id"`
	RoomNumber   string  `json:"room_number"`
	RoomType     string  `json:"room_type"`
	GuestName    string  `json:"guest_name"`
	GuestEmail   *string `json:"guest_email,omitempty"`
	GuestPhone   *string `json:"guest_phone,omitempty"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	Nights       int     `json:"nights"`
	Platform     string  `json:"platform"`
	Status       string  `json:"status"`
	OriginalUID  *string `json:"original_uid,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.CheckInDate = daterange.Format(model.CheckInDate)
	r.CheckOutDate = daterange.Format(model.CheckOutDate)
	r.Nights = model.Range().Nights()
	r.Platform = model.Platform
	r.Status = model.Status
	r.OriginalUID = model.OriginalUID
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
