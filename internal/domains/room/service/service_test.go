package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	roomMocks "innkeep/internal/domains/room/mocks"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	svc   service.Room
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestRoomService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	t.Run("defaults to clean", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, room model.Room) error {
			assert.Equal(t, model.StatusClean, room.Status)
			assert.Equal(t, "admin-1", room.CreatedBy)
			assert.Nil(t, room.ICalAgodaURL)

			return nil
		})

		empty := ""
		res, err := f.svc.Create(ctx, dto.CreateRoomRequest{RoomNumber: "101", RoomType: "Double", ICalAgodaURL: &empty})
		require.NoError(t, err)
		assert.Equal(t, "101", res.RoomNumber)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("duplicate room number", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Create(ctx, dto.CreateRoomRequest{RoomNumber: "101"})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := f.svc.Create(ctx, dto.CreateRoomRequest{RoomNumber: "101"})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{
		{ID: "r1", RoomNumber: "101"},
		{ID: "r2", RoomNumber: "102"},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Rooms, 2)
}

func TestRoomService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", RoomNumber: "101", Status: model.StatusDirty}, nil)

		res, err := f.svc.Get(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusDirty, res.Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateRoomRequest{}, "r1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("writes only provided fields", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusMaintenance, fields[model.FieldStatus])
			assert.NotContains(t, fields, model.FieldRoomNumber)
			assert.Contains(t, fields, constant.FieldModifiedAt)

			return nil
		})

		err := f.svc.Update(context.Background(), dto.UpdateRoomRequest{Status: model.StatusMaintenance}, "r1")
		assert.NoError(t, err)
	})

	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Update(context.Background(), dto.UpdateRoomRequest{RoomType: "Twin"}, "r1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("referenced by bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		err := f.svc.Delete(context.Background(), "r1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(context.Background(), "r1"))
	})
}

func TestRoomModel(t *testing.T) {
	url := "https://ota.example/ical/1.ics"
	room := model.Room{RoomNumber: "101", RoomType: "Double", ICalBookingURL: &url}

	assert.Equal(t, "101 (Double)", room.Label())
	assert.Equal(t, url, room.FeedURL(model.PlatformBooking))
	assert.Empty(t, room.FeedURL(model.PlatformAgoda))
	assert.Empty(t, room.FeedURL("other"))
	assert.Equal(t, "101", model.Room{RoomNumber: "101"}.Label())
}
