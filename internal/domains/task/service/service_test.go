package service_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	s3Mocks "innkeep/infras/s3/mocks"
	bookingMocks "innkeep/internal/domains/booking/mocks"
	bookingModel "innkeep/internal/domains/booking/model"
	notificationDto "innkeep/internal/domains/notification/model/dto"
	notificationMocks "innkeep/internal/domains/notification/mocks"
	roomMocks "innkeep/internal/domains/room/mocks"
	roomModel "innkeep/internal/domains/room/model"
	taskMocks "innkeep/internal/domains/task/mocks"
	"innkeep/internal/domains/task/model"
	"innkeep/internal/domains/task/model/dto"
	"innkeep/internal/domains/task/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	repoMocks "innkeep/shared/repository/mocks"
	"innkeep/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	housekeeper = "6f1c0a52-8f0e-4b52-9d43-0c3f2f6b7a01"
	taskID      = "0b9e7c55-1d2a-4e8f-8a61-5d2f7c9e3b10"
	photoURL    = "https://cdn.example/tasks/proof.jpg"
)

type fixture struct {
	repo         *taskMocks.MockTask
	bookings     *bookingMocks.MockBooking
	rooms        *roomMocks.MockRoom
	storage      *s3Mocks.MockS3
	notification *notificationMocks.MockNotification
	svc          service.Task
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         taskMocks.NewMockTask(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		rooms:        roomMocks.NewMockRoom(ctrl),
		storage:      s3Mocks.NewMockS3(ctrl),
		notification: notificationMocks.NewMockNotification(ctrl),
	}

	transactor := repoMocks.NewMockTransactor(ctrl)
	transactor.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).AnyTimes()

	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Task.PhotoDirectory = "tasks"

	f.svc = service.New(f.repo, f.bookings, f.rooms, transactor, f.storage, f.notification, cfg, redisCache, mocks.NewOtel())

	return f
}

func asHousekeeper(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleHousekeeper)
}

func asAdmin() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

// hotel is the task and room state behind the mocks.
type hotel struct {
	mu    sync.Mutex
	tasks map[string]model.Task
	rooms map[string]string
}

func newHotel(rooms ...string) *hotel {
	h := &hotel{tasks: map[string]model.Task{}, rooms: map[string]string{}}
	for _, id := range rooms {
		h.rooms[id] = roomModel.StatusOccupied
	}

	return h
}

func (h *hotel) wire(f fixture) {
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(h.exist).AnyTimes()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.insert).AnyTimes()
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(h.get).AnyTimes()
	f.repo.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.claim).AnyTimes()
	f.repo.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.complete).AnyTimes()
	f.repo.EXPECT().VerifyTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.verify).AnyTimes()
	f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(h.updateRoom).AnyTimes()
}

func (h *hotel) exist(_ context.Context, filter gDto.FilterGroup) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, args := filter.GetWhereClause()

	for _, task := range h.tasks {
		if task.BookingID != nil && *task.BookingID == args[model.FieldBookingID] {
			return true, nil
		}
	}

	return false, nil
}

func (h *hotel) insert(_ context.Context, _ *sqlx.Tx, task model.Task) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.tasks[task.ID] = task

	return nil
}

func (h *hotel) get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Task, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, args := filter.GetWhereClause()
	id, _ := args[model.FieldID].(string)

	return h.tasks[id], nil
}

func (h *hotel) claim(_ context.Context, id, housekeeperID string, _ time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	task, ok := h.tasks[id]
	if !ok || task.Status != model.StatusPending || task.HousekeeperID != nil {
		return 0, nil
	}

	task.Status = model.StatusAccepted
	task.HousekeeperID = &housekeeperID
	h.tasks[id] = task

	return 1, nil
}

func (h *hotel) complete(_ context.Context, id, housekeeperID, imageURL string, at time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	task, ok := h.tasks[id]
	if !ok || task.Status != model.StatusAccepted || !task.AssignedTo(housekeeperID) {
		return 0, nil
	}

	name := "Mei"
	task.Status = model.StatusCompleted
	task.ImageURL = &imageURL
	task.CompletedAt = &at
	task.HousekeeperName = &name
	h.tasks[id] = task

	return 1, nil
}

func (h *hotel) verify(_ context.Context, _ *sqlx.Tx, id, _ string, _ time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	task, ok := h.tasks[id]
	if !ok || task.Status != model.StatusCompleted {
		return 0, nil
	}

	task.Status = model.StatusVerified
	h.tasks[id] = task

	return 1, nil
}

func (h *hotel) updateRoom(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, args := filter.GetWhereClause()
	h.rooms[args[roomModel.FieldID].(string)] = fields[roomModel.FieldStatus].(string)

	return nil
}

func (h *hotel) only() model.Task {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, task := range h.tasks {
		return task
	}

	return model.Task{}
}

func checkout(id, roomID string) bookingModel.Booking {
	return bookingModel.Booking{
		ID:           id,
		RoomID:       roomID,
		GuestName:    "Guest " + id,
		CheckInDate:  timezone.Today().AddDate(0, 0, -2),
		CheckOutDate: timezone.Today(),
		Status:       bookingModel.StatusConfirmed,
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	f := newFixture(t)

	h := newHotel("room-101", "room-102")
	h.wire(f)

	today := timezone.Today().Format(time.DateOnly)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
			_, args := filter.GetWhereClause()

			assert.Equal(t, today, args["checkout_from"])
			assert.Equal(t, today, args["checkout_to"])
			assert.Equal(t, bookingModel.StatusCancelled, args["not_status"])

			return []bookingModel.Booking{checkout("b-1", "room-101"), checkout("b-2", "room-102")}, nil
		}).Times(2)

	first, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Empty(t, first.Errors)
	assert.Equal(t, dto.MessageGenerated, first.Message)

	second, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Empty(t, second.Errors)

	assert.Len(t, h.tasks, 2)
	assert.Equal(t, roomModel.StatusDirty, h.rooms["room-101"])
	assert.Equal(t, roomModel.StatusDirty, h.rooms["room-102"])

	for _, task := range h.tasks {
		assert.Equal(t, model.StatusPending, task.Status)
		assert.Nil(t, task.HousekeeperID)
		assert.Equal(t, today, task.ScheduledDate.Format(time.DateOnly))
	}
}

func TestGenerate_FailuresAreRecorded(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Booking{checkout("b-1", "room-101"), checkout("b-2", "room-102"), checkout("b-3", "room-103")}, nil)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)

	gomock.InOrder(
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation}),
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)
	f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, []string{"Failed to create task for booking b-1: disk full"}, res.Errors)
}

func TestGenerate_NoCheckouts(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.MessageNoCheckouts, res.Message)
	assert.Equal(t, 0, res.Created)
	assert.NotNil(t, res.Errors)
}

func TestClaim_Race(t *testing.T) {
	f := newFixture(t)

	var (
		claimed atomic.Int64
		winner  atomic.Value
	)

	f.repo.EXPECT().Claim(gomock.Any(), taskID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, hk string, _ time.Time) (int64, error) {
			if claimed.CompareAndSwap(0, 1) {
				winner.Store(hk)

				return 1, nil
			}

			return 0, nil
		}).Times(2)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ gDto.FilterGroup, _ ...string) (model.Task, error) {
		hk, _ := winner.Load().(string)

		return model.Task{ID: taskID, Status: model.StatusAccepted, HousekeeperID: &hk}, nil
	})

	errs := make([]error, 2)

	var wg sync.WaitGroup

	for i, hk := range []string{"hk-a", "hk-b"} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs[i] = f.svc.Claim(asHousekeeper(hk), taskID)
		}()
	}

	wg.Wait()

	var ok, conflict int

	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case failure.GetCode(err) == http.StatusConflict:
			conflict++

			assert.EqualError(t, err, service.MessageAlreadyClaimed)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)
}

func TestClaim_ZeroRows(t *testing.T) {
	tests := []struct {
		name     string
		task     model.Task
		wantCode int
	}{
		{name: "missing task", task: model.Task{}, wantCode: http.StatusNotFound},
		{name: "not pending", task: model.Task{ID: taskID, Status: model.StatusVerified}, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Claim(gomock.Any(), taskID, housekeeper, gomock.Any()).Return(int64(0), nil)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.task, nil)

			err := f.svc.Claim(asHousekeeper(housekeeper), taskID)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestComplete(t *testing.T) {
	other := "someone-else"

	tests := []struct {
		name     string
		task     model.Task
		wantCode int
	}{
		{name: "not the assignee", task: model.Task{ID: taskID, Status: model.StatusAccepted, HousekeeperID: &other}, wantCode: http.StatusForbidden},
		{name: "still pending", task: model.Task{ID: taskID, Status: model.StatusPending}, wantCode: http.StatusUnprocessableEntity},
		{name: "already verified", task: model.Task{ID: taskID, Status: model.StatusVerified, HousekeeperID: &other}, wantCode: http.StatusUnprocessableEntity},
		{name: "missing", task: model.Task{}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Complete(gomock.Any(), taskID, housekeeper, photoURL, gomock.Any()).Return(int64(0), nil)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.task, nil)

			err := f.svc.Complete(asHousekeeper(housekeeper), dto.CompleteTaskRequest{TaskID: taskID, ImageURL: photoURL})
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}

	t.Run("store failure surfaces as 500", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Complete(gomock.Any(), taskID, housekeeper, photoURL, gomock.Any()).Return(int64(0), errors.New("connection reset"))

		err := f.svc.Complete(asHousekeeper(housekeeper), dto.CompleteTaskRequest{TaskID: taskID, ImageURL: photoURL})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestVerifyAndReject_OnlyFromCompleted(t *testing.T) {
	for _, status := range []string{model.StatusPending, model.StatusAccepted, model.StatusVerified} {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{ID: taskID, Status: status}, nil).Times(2)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(f.svc.Verify(asAdmin(), taskID)), status)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(f.svc.Reject(asAdmin(), taskID)), status)
	}
}

func TestVerify_LostRaceRollsBack(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{ID: taskID, RoomID: "room-101", Status: model.StatusCompleted}, nil)
	f.repo.EXPECT().VerifyTx(gomock.Any(), gomock.Any(), taskID, "admin-1", gomock.Any()).Return(int64(0), nil)

	err := f.svc.Verify(asAdmin(), taskID)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
}

func TestReject(t *testing.T) {
	f := newFixture(t)

	image := photoURL
	done := make(chan struct{})

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Task{ID: taskID, Status: model.StatusCompleted, HousekeeperID: &image, ImageURL: &image}, nil)
	f.repo.EXPECT().Reject(gomock.Any(), taskID, "admin-1", gomock.Any()).Return(int64(1), nil)
	f.storage.EXPECT().ObjectKeyFromURL(photoURL).Return("tasks/proof.jpg")
	f.storage.EXPECT().DeleteFile(gomock.Any(), "tasks/proof.jpg").DoAndReturn(func(context.Context, string) error {
		close(done)

		return nil
	})

	require.NoError(t, f.svc.Reject(asAdmin(), taskID))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("proof photo was not deleted")
	}
}

func TestUploadProof(t *testing.T) {
	t.Run("rejects non-images", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UploadProof(context.Background(), dto.ProofFile{Name: "notes.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("stores under the photo directory", func(t *testing.T) {
		f := newFixture(t)

		f.storage.EXPECT().UploadFile(gomock.Any(), "tasks", gomock.Any(), "image/png", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, name, _ string, _ io.Reader) (string, error) {
				assert.True(t, strings.HasSuffix(name, ".png"))

				return "https://cdn.example/tasks/" + name, nil
			})

		res, err := f.svc.UploadProof(context.Background(), dto.ProofFile{Name: "room.png", ContentType: "image/png", Size: 10, Body: strings.NewReader("x")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URL, "https://cdn.example/tasks/"))
	})
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)

	h := newHotel("room-101")
	h.rooms["room-101"] = roomModel.StatusClean
	h.wire(f)

	// Zero-night stays are rejected, so the guest checks in two days ago and leaves today.
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{checkout("b-1", "room-101")}, nil)

	notified := make(chan notificationDto.TaskCompletedEvent, 1)
	f.notification.EXPECT().TaskCompleted(gomock.Any(), gomock.Any()).Do(func(_ context.Context, event notificationDto.TaskCompletedEvent) {
		notified <- event
	})

	res, err := f.svc.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)
	assert.Equal(t, roomModel.StatusDirty, h.rooms["room-101"])

	id := h.only().ID

	require.NoError(t, f.svc.Claim(asHousekeeper(housekeeper), id))
	assert.Equal(t, http.StatusConflict, failure.GetCode(f.svc.Claim(asHousekeeper("hk-late"), id)))
	assert.Equal(t, model.StatusAccepted, h.only().Status)
	assert.Equal(t, roomModel.StatusDirty, h.rooms["room-101"])

	require.NoError(t, f.svc.Complete(asHousekeeper(housekeeper), dto.CompleteTaskRequest{TaskID: id, ImageURL: photoURL}))
	assert.Equal(t, roomModel.StatusDirty, h.rooms["room-101"])

	select {
	case event := <-notified:
		assert.Equal(t, "Mei", event.HousekeeperName)
		assert.Equal(t, housekeeper, event.HousekeeperID)
	case <-time.After(time.Second):
		t.Fatal("completion was not notified")
	}

	require.NoError(t, f.svc.Verify(asAdmin(), id))

	task := h.only()
	assert.Equal(t, model.StatusVerified, task.Status)
	assert.Equal(t, photoURL, *task.ImageURL)
	assert.Equal(t, roomModel.StatusClean, h.rooms["room-101"])

	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(f.svc.Verify(asAdmin(), id)))
}
