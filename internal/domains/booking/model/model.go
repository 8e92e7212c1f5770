package model

import (
	"time"

	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	"innkeep/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldRoomID       = "room_id"
	FieldGuestName    = "guest_name"
	FieldGuestEmail   = "guest_email"
	FieldGuestPhone   = "guest_phone"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldPlatform     = "platform"
	FieldStatus       = "status"
	FieldOriginalUID  = "original_uid"
)

const (
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

const (
	PlatformOfficial = "official"
	PlatformBooking  = roomModel.PlatformBooking
	PlatformAgoda    = roomModel.PlatformAgoda
	PlatformWalkIn   = "walk-in"
	PlatformOther    = "other"
)

// Cache prefixes shared with every writer of booking rows.
const (
	CacheGetBooking    = "booking:get"
	CacheGetAllBooking = "booking:gets"
	CacheCountBooking  = "booking:count"
)

const (
	argRangeFrom    = "range_from"
	argRangeTo      = "range_to"
	argCheckoutFrom = "checkout_from"
	argCheckoutTo   = "checkout_to"
	argExcludeID    = "exclude_id"
	argExcludeUID   = "exclude_uid"
	argNotCanceled  = "not_status"
)

// Booking is a reservation joined with the label of its room.
type Booking struct {
	ID           string    `db:"id"`
	RoomID       string    `db:"room_id"`
	GuestName    string    `db:"guest_name"`
	GuestEmail   *string   `db:"guest_email"`
	GuestPhone   *string   `db:"guest_phone"`
	CheckInDate  time.Time `db:"check_in_date"`
	CheckOutDate time.Time `db:"check_out_date"`
	Platform     string    `db:"platform"`
	Status       string    `db:"status"`
	OriginalUID  *string   `db:"original_uid"`
	RoomNumber   string    `db:"room_number" table:"rooms"`
	RoomType     string    `db:"room_type"   table:"rooms"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = bookings.room_id"
}

func (b Booking) Range() daterange.Range {
	return daterange.Range{Start: b.CheckInDate, End: b.CheckOutDate}
}

// Column qualifies a booking column so it stays unambiguous next to the joined room.
func Column(field string) string {
	return TableName + "." + field
}

// ActiveFilter matches bookings that still hold their dates.
func ActiveFilter() gDto.Filter {
	return gDto.Filter{
		ArgName:  argNotCanceled,
		Field:    FieldStatus,
		Operator: gDto.FilterOperatorNotEq,
		Value:    StatusCancelled,
		Table:    TableName,
	}
}

// OverlapFilter matches non-cancelled bookings whose half-open stay intersects rng.
func OverlapFilter(rng daterange.Range) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			ActiveFilter(),
			gDto.Filter{
				ArgName:  argRangeTo,
				Field:    FieldCheckInDate,
				Operator: gDto.FilterOperatorLess,
				Value:    daterange.Format(rng.End),
				Table:    TableName,
			},
			gDto.Filter{
				ArgName:  argRangeFrom,
				Field:    FieldCheckOutDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    daterange.Format(rng.Start),
				Table:    TableName,
			},
		},
	}
}

// RoomOverlapFilter narrows OverlapFilter to one room.
func RoomOverlapFilter(roomID string, rng daterange.Range) gDto.FilterGroup {
	filter := OverlapFilter(rng)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    FieldRoomID,
		Operator: gDto.FilterOperatorEq,
		Value:    roomID,
		Table:    TableName,
	})

	return filter
}

// ExcludeID drops one booking from a conflict check, used when a booking is edited in place.
func ExcludeID(filter gDto.FilterGroup, id string) gDto.FilterGroup {
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  argExcludeID,
		Field:    FieldID,
		Operator: gDto.FilterOperatorNotEq,
		Value:    id,
		Table:    TableName,
	})

	return filter
}

// ExcludeOriginalUID keeps bookings that do not belong to the feed event uid.
func ExcludeOriginalUID(filter gDto.FilterGroup, uid string) gDto.FilterGroup {
	filter.Filters = append(filter.Filters, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				Field:    FieldOriginalUID,
				Operator: gDto.FilterIsNull,
				Table:    TableName,
			},
			gDto.Filter{
				ArgName:  argExcludeUID,
				Field:    FieldOriginalUID,
				Operator: gDto.FilterOperatorNotEq,
				Value:    uid,
				Table:    TableName,
			},
		},
	})

	return filter
}

// CheckoutFilter matches live bookings checking out on a day within [from, to].
func CheckoutFilter(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			ActiveFilter(),
			gDto.Filter{
				ArgName:  argCheckoutFrom,
				Field:    FieldCheckOutDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    daterange.Format(from),
				Table:    TableName,
			},
			gDto.Filter{
				ArgName:  argCheckoutTo,
				Field:    FieldCheckOutDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    daterange.Format(to),
				Table:    TableName,
			},
		},
	}
}
