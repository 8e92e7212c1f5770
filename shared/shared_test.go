package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"innkeep/shared"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	"innkeep/shared/dto"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		input string
		want  *bool
	}{
		{input: "", want: nil},
		{input: "true", want: &yes},
		{input: "1", want: &yes},
		{input: "false", want: &no},
		{input: "maybe", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(5, 0))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 10))
	assert.Equal(t, 3, shared.CalculateTotalPage(21, 10))
}

func TestTransformFields(t *testing.T) {
	type roomPatch struct {
		RoomType string  `db:"room_type"`
		Status   string  `db:"status"`
		Feed     *string `db:"ical_booking_url"`
		Ignored  string
	}

	feed := "https://ota.example/room.ics"
	fields := shared.TransformFields(roomPatch{Status: "dirty", Feed: &feed, Ignored: "x"}, "admin-1")

	assert.Equal(t, "dirty", fields["status"])
	assert.Equal(t, &feed, fields["ical_booking_url"])
	assert.NotContains(t, fields, "room_type")
	assert.NotContains(t, fields, "Ignored")
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("room-1", "id", "rooms")
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "room-1"}, args)
}

func TestUserFromContext(t *testing.T) {
	assert.Equal(t, constant.ContextGuest, shared.UserFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-7")
	assert.Equal(t, "staff-7", shared.UserFromContext(ctx))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "room_number", SortDir: dto.SortDirAsc}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Value: "dirty", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "room_type", Value: "Deluxe", Operator: dto.FilterOperatorEq},
		},
	}

	first := shared.BuildCacheKeyWithQuery("room:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("room:gets", params, filter)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "room:gets:2:10:room_number:ASC")
	assert.Contains(t, first, "room_type=Deluxe&status=dirty")
	assert.Equal(t, "room:get:abc", shared.BuildCacheKey("room:get", "abc"))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:gets*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "room:count*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "room:gets")
	shared.InvalidateCaches(context.Background(), mockCache, "room:count")
}

func TestIsPqError(t *testing.T) {
	exclusion := &pq.Error{Code: constant.PqErrorCodeExclusionViolation}

	assert.True(t, shared.IsPqError(exclusion, constant.PqErrorCodeExclusionViolation))
	assert.True(t, shared.IsPqError(fmt.Errorf("insert: %w", exclusion), constant.PqErrorCodeExclusionViolation))
	assert.False(t, shared.IsPqError(exclusion, constant.PqErrorCodeUniqueViolation))
	assert.False(t, shared.IsPqError(errors.New("boom"), constant.PqErrorCodeUniqueViolation))
}
