package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Task=MockTaskService

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/s3"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingRepo "innkeep/internal/domains/booking/repository"
	notificationDto "innkeep/internal/domains/notification/model/dto"
	notification "innkeep/internal/domains/notification/service"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"
	"innkeep/internal/domains/task/model"
	"innkeep/internal/domains/task/model/dto"
	"innkeep/internal/domains/task/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"
	"innkeep/shared/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	MessageAlreadyClaimed = "task already claimed"
	MessageNotAssignee    = "task is assigned to another housekeeper"

	defaultHousekeeperName = "Housekeeper"
)

var (
	errLostTransition = errors.New("task changed state concurrently")

	photoExtensions = map[string]string{
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}
)

type Task interface {
	Generate(ctx context.Context) (dto.GenerateResult, error)
	Claim(ctx context.Context, id string) error
	Complete(ctx context.Context, req dto.CompleteTaskRequest) error
	Verify(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	UploadProof(ctx context.Context, file dto.ProofFile) (dto.UploadProofResponse, error)
	ListAvailable(ctx context.Context, params gDto.QueryParams) (dto.GetTasksResponse, error)
	ListMine(ctx context.Context, params gDto.QueryParams) (dto.GetTasksResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTasksResponse, error)
	Get(ctx context.Context, id string) (dto.TaskResponse, error)
}

type serviceImpl struct {
	repo         repository.Task
	bookingRepo  bookingRepo.Booking
	roomRepo     roomRepo.Room
	transactor   gRepo.Transactor
	storage      s3.S3
	notification notification.Notification
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Task,
	bookingRepo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	transactor gRepo.Transactor,
	storage s3.S3,
	notification notification.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Task {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		transactor:   transactor,
		storage:      storage,
		notification: notification,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, ids ...string) {
	for _, id := range ids {
		if err := redisCache.Delete(ctx, shared.BuildCacheKey(model.CacheGetTask, id)); err != nil {
			log.Error().Err(err).Str("taskId", id).Msg("failed to delete task cache")
		}
	}

	shared.InvalidateCaches(ctx, redisCache, model.CacheGetAllTask)
	shared.InvalidateCaches(ctx, redisCache, model.CacheCountTask)
}

// Generate opens one pending task per booking checking out today and marks its room dirty.
// A booking that already has a task is skipped, so the run can be repeated safely.
func (s *serviceImpl) Generate(ctx context.Context) (res dto.GenerateResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Generate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	today := timezone.Today()
	from := today.AddDate(0, 0, -max(s.cfg.Task.GenerationLookbackDays, 0))

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  bookingModel.Column(bookingModel.FieldCheckOutDate),
		SortDir: gDto.SortDirAsc,
	}, bookingModel.CheckoutFilter(from, today))
	if err != nil {
		log.Error().Err(err).Msg("failed to get checkout bookings")

		return res, fmt.Errorf("failed to get checkout bookings: %w", err)
	}

	res.Errors = []string{}

	if len(bookings) == 0 {
		res.Message = dto.MessageNoCheckouts

		return res, nil
	}

	dirty := []string{}

	for _, booking := range bookings {
		created, err := s.generateFor(ctx, booking, today)
		if err != nil {
			msg := fmt.Sprintf("Failed to create task for booking %s: %s", booking.ID, err.Error())
			res.Errors = append(res.Errors, msg)

			log.Warn().Str("bookingId", booking.ID).Msg(msg)

			continue
		}

		if created {
			res.Created++

			dirty = append(dirty, booking.RoomID)
		}
	}

	res.Message = dto.MessageGenerated

	if res.Created > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			roomService.InvalidateCaches(c, s.cache, dirty...)
			InvalidateCaches(c, s.cache)
		}()
	}

	log.Info().Int("bookings", len(bookings)).Int("created", res.Created).Int("errors", len(res.Errors)).Msg("task generation finished")

	return res, nil
}

func (s *serviceImpl) generateFor(ctx context.Context, booking bookingModel.Booking, today time.Time) (bool, error) {
	exist, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Value:    booking.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		return false, err
	}

	if exist {
		return false, nil
	}

	bookingID := booking.ID
	task := model.Task{
		ID:            uuid.NewString(),
		BookingID:     &bookingID,
		RoomID:        booking.RoomID,
		Status:        model.StatusPending,
		ScheduledDate: today,
		Metadata:      gModel.NewMetadata(constant.ContextSystem),
	}

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, task); err != nil {
			return err
		}

		fields := shared.ModifiedFields(constant.ContextSystem)
		fields[roomModel.FieldStatus] = roomModel.StatusDirty

		return s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			log.Info().Str("bookingId", booking.ID).Msg("task created by a concurrent run")

			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Claim hands a pending task to the calling housekeeper. Of two concurrent claims exactly one matches the row.
func (s *serviceImpl) Claim(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Claim")
	defer scope.End()
	defer scope.TraceIfError(&err)

	housekeeperID := shared.UserFromContext(ctx)

	affected, err := s.repo.Claim(ctx, id, housekeeperID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to claim task")

		return fmt.Errorf("failed to claim task: %w", err)
	}

	if affected == 0 {
		task, err := s.get(ctx, id)
		if err != nil {
			return err
		}

		if task.HousekeeperID != nil {
			return failure.Conflict(MessageAlreadyClaimed) // nolint:wrapcheck
		}

		return invalidTransition(model.ActionClaim, task.Status)
	}

	s.invalidate(ctx, id)

	return nil
}

// Complete records the proof photo of an accepted task. Only the assignee may complete it.
func (s *serviceImpl) Complete(ctx context.Context, req dto.CompleteTaskRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	housekeeperID := shared.UserFromContext(ctx)

	affected, err := s.repo.Complete(ctx, req.TaskID, housekeeperID, req.ImageURL, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to complete task")

		return fmt.Errorf("failed to complete task: %w", err)
	}

	if affected == 0 {
		task, err := s.get(ctx, req.TaskID)
		if err != nil {
			return err
		}

		if task.Status == model.StatusAccepted && !task.AssignedTo(housekeeperID) {
			return failure.Forbidden(MessageNotAssignee) // nolint:wrapcheck
		}

		return invalidTransition(model.ActionComplete, task.Status)
	}

	s.invalidate(ctx, req.TaskID)

	task, err := s.repo.Get(ctx, shared.FilterByID(req.TaskID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("taskId", req.TaskID).Msg("completed task not reloaded, notification skipped")

		return nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		name := defaultHousekeeperName
		if task.HousekeeperName != nil && *task.HousekeeperName != "" {
			name = *task.HousekeeperName
		}

		s.notification.TaskCompleted(c, notificationDto.TaskCompletedEvent{
			TaskID:          task.ID,
			RoomID:          task.RoomID,
			RoomNumber:      task.RoomNumber,
			HousekeeperID:   housekeeperID,
			HousekeeperName: name,
			ImageURL:        req.ImageURL,
		})
	}()

	return nil
}

// Verify accepts the work and releases the room as clean, both or neither.
func (s *serviceImpl) Verify(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(&err)

	task, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !model.ValidTransition(model.ActionVerify, task.Status) {
		return invalidTransition(model.ActionVerify, task.Status)
	}

	user := shared.UserFromContext(ctx)

	err = s.transactor.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		affected, err := s.repo.VerifyTx(ctx, tx, id, user, timezone.Now())
		if err != nil {
			return err
		}

		if affected == 0 {
			return errLostTransition
		}

		fields := shared.ModifiedFields(user)
		fields[roomModel.FieldStatus] = roomModel.StatusClean

		return s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(task.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if errors.Is(err, errLostTransition) {
		return failure.UnprocessableEntity("task is no longer awaiting verification") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to verify task")

		return fmt.Errorf("failed to verify task: %w", err)
	}

	s.invalidate(ctx, id)

	go func() {
		c := context.WithoutCancel(ctx)

		roomService.InvalidateCaches(c, s.cache, task.RoomID)
	}()

	return nil
}

// Reject sends completed work back to the pool, unassigned and without its photo.
func (s *serviceImpl) Reject(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(&err)

	task, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !model.ValidTransition(model.ActionReject, task.Status) {
		return invalidTransition(model.ActionReject, task.Status)
	}

	affected, err := s.repo.Reject(ctx, id, shared.UserFromContext(ctx), timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to reject task")

		return fmt.Errorf("failed to reject task: %w", err)
	}

	if affected == 0 {
		return failure.UnprocessableEntity("task is no longer awaiting verification") // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	if task.ImageURL != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			key := s.storage.ObjectKeyFromURL(*task.ImageURL)
			if key == "" {
				return
			}

			if err := s.storage.DeleteFile(c, key); err != nil {
				log.Warn().Err(err).Str("objectKey", key).Msg("failed to delete rejected proof photo")
			}
		}()
	}

	return nil
}

func (s *serviceImpl) UploadProof(ctx context.Context, file dto.ProofFile) (res dto.UploadProofResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadProof")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&file); err != nil {
		return res, err
	}

	ext := path.Ext(file.Name)
	if ext == "" {
		ext = photoExtensions[file.ContentType]
	}

	res.URL, err = s.storage.UploadFile(ctx, s.cfg.Task.PhotoDirectory, uuid.NewString()+ext, file.ContentType, file.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload proof photo")

		return res, fmt.Errorf("failed to upload proof photo: %w", err)
	}

	return res, nil
}

// ListAvailable is the claim pool: pending tasks nobody holds yet.
func (s *serviceImpl) ListAvailable(ctx context.Context, params gDto.QueryParams) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailable")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.list(ctx, sortBySchedule(params, gDto.SortDirAsc), gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldHousekeeperID, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	})
}

func (s *serviceImpl) ListMine(ctx context.Context, params gDto.QueryParams) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.list(ctx, sortBySchedule(params, gDto.SortDirDesc), gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldHousekeeperID, Value: shared.UserFromContext(ctx), Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	})
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllTask, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tasks")

		return res, nil
	}

	res, err = s.list(ctx, params, filter)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tasks to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CacheGetTask, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for task")

		return res, nil
	}

	task, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(task)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save task to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTasksResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tasks")

		return res, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tasks")

		return res, fmt.Errorf("failed to get tasks: %w", err)
	}

	res.FromModels(tasks, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return task, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == constant.Empty {
		return task, failure.NotFound("task not found") // nolint:wrapcheck
	}

	return task, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		InvalidateCaches(c, s.cache, id)
	}()
}

func invalidTransition(action, status string) error {
	return failure.UnprocessableEntity(fmt.Sprintf("cannot %s a task that is %s", action, status)) // nolint:wrapcheck
}

func sortBySchedule(params gDto.QueryParams, dir string) gDto.QueryParams {
	if params.SortBy == "" {
		params.SortBy = model.TableName + "." + model.FieldScheduledDate
		params.SortDir = dir
	}

	return params
}
