package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"maps"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	notificationDto "innkeep/internal/domains/notification/model/dto"
	notification "innkeep/internal/domains/notification/service"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	MessageRoomUnavailable = "room no longer available, please search again"
	MessageRoomNotExist    = "room does not exist"
)

type Booking interface {
	Admit(ctx context.Context, req dto.AdmitBookingRequest) (dto.BookingResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	notification notification.Notification
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, notification notification.Notification, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		notification: notification,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// InvalidateCaches drops cached booking rows and listings.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, ids ...string) {
	for _, id := range ids {
		if err := redisCache.Delete(ctx, shared.BuildCacheKey(model.CacheGetBooking, id)); err != nil {
			log.Error().Err(err).Str("bookingId", id).Msg("failed to delete booking cache")
		}
	}

	shared.InvalidateCaches(ctx, redisCache, model.CacheGetAllBooking)
	shared.InvalidateCaches(ctx, redisCache, model.CacheCountBooking)
}

// Admit rechecks the requested stay against live bookings before inserting it.
// A conflict means the caller must search again; it is never retried here.
func (s *serviceImpl) Admit(ctx context.Context, req dto.AdmitBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Admit")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.create(ctx, req.ToCreateRequest())
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.notification.BookingCreated(c, notificationDto.BookingCreatedEvent{
			BookingID:    booking.ID,
			RoomID:       booking.RoomID,
			RoomLabel:    roomModel.Room{RoomNumber: booking.RoomNumber, RoomType: booking.RoomType}.Label(),
			GuestName:    booking.GuestName,
			Platform:     booking.Platform,
			CheckInDate:  booking.CheckInDate,
			CheckOutDate: booking.CheckOutDate,
		})
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.create(ctx, req)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) create(ctx context.Context, req dto.CreateBookingRequest) (model.Booking, error) {
	stay, err := req.Range()
	if err != nil {
		return model.Booking{}, failure.BadRequest(err) // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return model.Booking{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return model.Booking{}, failure.BadRequestFromString(MessageRoomNotExist) // nolint:wrapcheck
	}

	conflict, err := s.repo.Exist(ctx, model.RoomOverlapFilter(room.ID, stay))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return model.Booking{}, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if conflict {
		log.Info().Str("roomId", room.ID).Str("stay", stay.String()).Msg("booking rejected, room taken")

		return model.Booking{}, failure.Conflict(MessageRoomUnavailable) // nolint:wrapcheck
	}

	booking := req.ToModel(shared.UserFromContext(ctx), stay)

	if err = s.repo.Insert(ctx, booking); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeExclusionViolation) {
			return model.Booking{}, failure.Conflict(MessageRoomUnavailable) // nolint:wrapcheck
		}

		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return model.Booking{}, failure.BadRequestFromString(MessageRoomNotExist) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return model.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.RoomNumber = room.RoomNumber
	booking.RoomType = room.RoomType

	go func() {
		c := context.WithoutCancel(ctx)

		InvalidateCaches(c, s.cache)
	}()

	return booking, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// Update edits a booking in place. Moving a live booking to other dates or another room rechecks
// overlap with every other live booking on the target room.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	stay, err := mergeStay(current, req)
	if err != nil {
		return failure.BadRequest(err) // nolint:wrapcheck
	}

	if req.RoomID != "" && req.RoomID != current.RoomID {
		exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check room existence")

			return fmt.Errorf("failed to check room existence: %w", err)
		}

		if !exist {
			return failure.BadRequestFromString(MessageRoomNotExist) // nolint:wrapcheck
		}
	}

	wasLive := current.Status != model.StatusCancelled

	fields := req.Apply(&current, stay)
	if len(fields) == 0 {
		return nil
	}

	_, roomMoved := fields[model.FieldRoomID]
	_, inMoved := fields[model.FieldCheckInDate]
	_, outMoved := fields[model.FieldCheckOutDate]

	isLive := current.Status != model.StatusCancelled
	if isLive && (!wasLive || roomMoved || inMoved || outMoved) {
		conflict, err := s.repo.Exist(ctx, model.ExcludeID(model.RoomOverlapFilter(current.RoomID, stay), id))
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking overlap")

			return fmt.Errorf("failed to check booking overlap: %w", err)
		}

		if conflict {
			return failure.Conflict(MessageRoomUnavailable) // nolint:wrapcheck
		}
	}

	maps.Copy(fields, shared.ModifiedFields(shared.UserFromContext(ctx)))

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeExclusionViolation) {
			return failure.Conflict(MessageRoomUnavailable) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		InvalidateCaches(c, s.cache, id)
	}()

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if current.Status == model.StatusCancelled {
		return nil
	}

	fields := shared.ModifiedFields(shared.UserFromContext(ctx))
	fields[model.FieldStatus] = model.StatusCancelled

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		InvalidateCaches(c, s.cache, id)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		InvalidateCaches(c, s.cache, id)
	}()

	return nil
}

func mergeStay(current model.Booking, req dto.UpdateBookingRequest) (daterange.Range, error) {
	checkIn := current.CheckInDate
	checkOut := current.CheckOutDate

	if req.CheckInDate != "" {
		date, err := daterange.ParseDate(req.CheckInDate)
		if err != nil {
			return daterange.Range{}, err
		}

		checkIn = date
	}

	if req.CheckOutDate != "" {
		date, err := daterange.ParseDate(req.CheckOutDate)
		if err != nil {
			return daterange.Range{}, err
		}

		checkOut = date
	}

	return daterange.New(checkIn, checkOut)
}
