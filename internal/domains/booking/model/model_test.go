package model_test

import (
	"testing"

	"innkeep/internal/domains/booking/model"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, from, to string) daterange.Range {
	t.Helper()

	rng, err := daterange.Parse(from, to)
	require.NoError(t, err)

	return rng
}

func TestOverlapFilters(t *testing.T) {
	rng := mustRange(t, "2026-02-15", "2026-02-17")

	tests := []struct {
		name      string
		filter    gDto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:   "half-open overlap",
			filter: model.OverlapFilter(rng),
			wantWhere: "(bookings.status != :not_status" +
				" AND bookings.check_in_date < :range_to" +
				" AND bookings.check_out_date > :range_from)",
			wantArgs: map[string]any{
				"not_status": model.StatusCancelled,
				"range_to":   "2026-02-17",
				"range_from": "2026-02-15",
			},
		},
		{
			name:   "one room",
			filter: model.RoomOverlapFilter("room-1", rng),
			wantWhere: "(bookings.status != :not_status" +
				" AND bookings.check_in_date < :range_to" +
				" AND bookings.check_out_date > :range_from" +
				" AND bookings.room_id = :room_id)",
			wantArgs: map[string]any{
				"not_status": model.StatusCancelled,
				"range_to":   "2026-02-17",
				"range_from": "2026-02-15",
				"room_id":    "room-1",
			},
		},
		{
			name:   "edited booking excluded",
			filter: model.ExcludeID(model.RoomOverlapFilter("room-1", rng), "booking-1"),
			wantWhere: "(bookings.status != :not_status" +
				" AND bookings.check_in_date < :range_to" +
				" AND bookings.check_out_date > :range_from" +
				" AND bookings.room_id = :room_id" +
				" AND bookings.id != :exclude_id)",
			wantArgs: map[string]any{
				"not_status": model.StatusCancelled,
				"range_to":   "2026-02-17",
				"range_from": "2026-02-15",
				"room_id":    "room-1",
				"exclude_id": "booking-1",
			},
		},
		{
			name:   "feed event excluded, direct bookings kept",
			filter: model.ExcludeOriginalUID(model.RoomOverlapFilter("room-1", rng), "uid-1@agoda"),
			wantWhere: "(bookings.status != :not_status" +
				" AND bookings.check_in_date < :range_to" +
				" AND bookings.check_out_date > :range_from" +
				" AND bookings.room_id = :room_id" +
				" AND (bookings.original_uid IS NULL OR bookings.original_uid != :exclude_uid))",
			wantArgs: map[string]any{
				"not_status":  model.StatusCancelled,
				"range_to":    "2026-02-17",
				"range_from":  "2026-02-15",
				"room_id":     "room-1",
				"exclude_uid": "uid-1@agoda",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCheckoutFilter_InclusiveWindow(t *testing.T) {
	rng := mustRange(t, "2026-02-14", "2026-02-16")

	filter := model.CheckoutFilter(rng.Start, rng.End)
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.status != :not_status"+
		" AND bookings.check_out_date >= :checkout_from"+
		" AND bookings.check_out_date <= :checkout_to)", where)
	assert.Equal(t, map[string]any{
		"not_status":    model.StatusCancelled,
		"checkout_from": "2026-02-14",
		"checkout_to":   "2026-02-16",
	}, args)
}
