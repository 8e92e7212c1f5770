package model

import (
	"fmt"

	gDto "innkeep/shared/dto"
	"innkeep/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID             = "id"
	FieldRoomNumber     = "room_number"
	FieldRoomType       = "room_type"
	FieldStatus         = "status"
	FieldICalBookingURL = "ical_booking_url"
	FieldICalAgodaURL   = "ical_agoda_url"
)

const (
	StatusClean       = "clean"
	StatusDirty       = "dirty"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

// Feed platforms with a per-room calendar URL.
const (
	PlatformBooking = "booking"
	PlatformAgoda   = "agoda"
)

var FeedPlatforms = []string{PlatformBooking, PlatformAgoda}

// Cache prefixes shared with every writer of room rows.
const (
	CacheGetRoom    = "room:get"
	CacheGetAllRoom = "room:gets"
	CacheCountRoom  = "room:count"
)

type Room struct {
	ID             string  `db:"id"`
	RoomNumber     string  `db:"room_number"`
	RoomType       string  `db:"room_type"`
	Status         string  `db:"status"`
	ICalBookingURL *string `db:"ical_booking_url"`
	ICalAgodaURL   *string `db:"ical_agoda_url"`
	model.Metadata
}

// Label is the human name used in notifications, e.g. "101 (Double)".
func (r Room) Label() string {
	if r.RoomType == "" {
		return r.RoomNumber
	}

	return fmt.Sprintf("%s (%s)", r.RoomNumber, r.RoomType)
}

// FeedURL returns the calendar URL configured for platform, or "".
func (r Room) FeedURL(platform string) string {
	var url *string

	switch platform {
	case PlatformBooking:
		url = r.ICalBookingURL
	case PlatformAgoda:
		url = r.ICalAgodaURL
	}

	if url == nil {
		return ""
	}

	return *url
}

// FeedFilter matches rooms subscribed to at least one external calendar.
func FeedFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{Field: FieldICalBookingURL, Operator: gDto.FilterIsNotNull, Table: TableName},
			gDto.Filter{Field: FieldICalAgodaURL, Operator: gDto.FilterIsNotNull, Table: TableName},
		},
	}
}
