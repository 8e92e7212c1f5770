package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/ical"
	"innkeep/infras/otel"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingRepo "innkeep/internal/domains/booking/repository"
	bookingService "innkeep/internal/domains/booking/service"
	"innkeep/internal/domains/ical/model/dto"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	LockKey = "ical:sync:lock"

	MessageSyncRunning = "synchronization already running"
	PlaceholderSummary = "External reservation"

	exportSummary = "Booked"
)

type ICal interface {
	SyncAll(ctx context.Context) (dto.SyncResult, error)
	SyncRoom(ctx context.Context, room roomModel.Room, platform, url string) dto.SyncResult
	Export(ctx context.Context, roomID string) (dto.ExportResponse, error)
}

type serviceImpl struct {
	cfg         *config.Config
	client      ical.Client
	roomRepo    roomRepo.Room
	bookingRepo bookingRepo.Booking
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(cfg *config.Config, client ical.Client, roomRepo roomRepo.Room, bookingRepo bookingRepo.Booking, cache cache.RedisCache, otel otel.Otel) ICal {
	return &serviceImpl{
		cfg:         cfg,
		client:      client,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		otel:        otel,
	}
}

// SyncAll pulls every configured feed of every room. Only one run may hold the lock at a time.
func (s *serviceImpl) SyncAll(ctx context.Context) (res dto.SyncResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	token, locked, err := s.cache.Lock(ctx, LockKey, s.cfg.Sync.LockTTLSeconds)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire sync lock")

		return res, fmt.Errorf("failed to acquire sync lock: %w", err)
	}

	if !locked {
		return res, failure.Conflict(MessageSyncRunning) // nolint:wrapcheck
	}

	defer func() {
		err := s.cache.Unlock(context.WithoutCancel(ctx), LockKey, token)

		switch {
		case errors.Is(err, cache.ErrLockNotHeld):
			log.Warn().Int("ttlSeconds", s.cfg.Sync.LockTTLSeconds).Msg("sync outlived its lock, left the current holder alone")
		case err != nil:
			log.Error().Err(err).Msg("failed to release sync lock")
		}
	}()

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  roomModel.TableName + "." + roomModel.FieldRoomNumber,
		SortDir: gDto.SortDirAsc,
	}, roomModel.FeedFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms with feeds")

		return res, fmt.Errorf("failed to get rooms with feeds: %w", err)
	}

	res.Errors = []string{}

	for _, room := range rooms {
		for _, platform := range roomModel.FeedPlatforms {
			url := room.FeedURL(platform)
			if url == "" {
				continue
			}

			res.Merge(s.SyncRoom(ctx, room, platform, url))
		}
	}

	log.Info().
		Int("rooms", len(rooms)).
		Int("processed", res.Processed).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("errors", len(res.Errors)).
		Msg("calendar synchronization finished")

	return res, nil
}

// SyncRoom reconciles one feed against stored bookings. An event is matched by its UID;
// an overlap with any other live booking on the room is reported and left untouched.
func (s *serviceImpl) SyncRoom(ctx context.Context, room roomModel.Room, platform, url string) (res dto.SyncResult) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncRoom")
	defer scope.End()

	res.Errors = []string{}

	events, err := s.client.Fetch(ctx, url)
	if err != nil {
		scope.TraceError(err)
		res.Errors = append(res.Errors, fmt.Sprintf("room %s sync failed: %s", room.RoomNumber, err.Error()))
		log.Warn().Err(err).Str("room", room.RoomNumber).Str("platform", platform).Msg("calendar feed skipped")

		return res
	}

	for _, event := range events {
		s.syncEvent(ctx, room, platform, event, &res)
	}

	if res.Changed() {
		go func() {
			c := context.WithoutCancel(ctx)

			bookingService.InvalidateCaches(c, s.cache)
		}()
	}

	return res
}

func (s *serviceImpl) syncEvent(ctx context.Context, room roomModel.Room, platform string, event ical.Event, res *dto.SyncResult) {
	fail := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Errors = append(res.Errors, msg)

		log.Warn().Str("room", room.RoomNumber).Str("platform", platform).Msg(msg)
	}

	summary := event.Summary
	if summary == "" {
		summary = PlaceholderSummary
	}

	if event.UID == "" {
		fail("room %s: event %q has no UID, skipped", room.RoomNumber, summary)

		return
	}

	stay, err := daterange.New(event.Start, event.End)
	if err != nil {
		fail("room %s: event %s skipped: %s", room.RoomNumber, event.UID, err.Error())

		return
	}

	existing, err := s.bookingRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldOriginalUID,
				Value:    event.UID,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		fail("room %s: event %s lookup failed: %s", room.RoomNumber, event.UID, err.Error())

		return
	}

	conflicts, err := s.bookingRepo.GetAll(ctx,
		gDto.QueryParams{Limit: 1},
		bookingModel.ExcludeOriginalUID(bookingModel.RoomOverlapFilter(room.ID, stay), event.UID),
		bookingModel.FieldGuestName,
	)
	if err != nil {
		fail("room %s: event %s conflict check failed: %s", room.RoomNumber, event.UID, err.Error())

		return
	}

	if len(conflicts) > 0 {
		res.Processed++

		fail("conflict: %s (%s~%s) overlaps booking of %s in room %s",
			summary, daterange.Format(stay.Start), daterange.Format(stay.End), conflicts[0].GuestName, room.RoomNumber)

		return
	}

	if existing.ID != constant.Empty {
		fields := shared.ModifiedFields(constant.ContextSystem)
		fields[bookingModel.FieldRoomID] = room.ID
		fields[bookingModel.FieldGuestName] = summary
		fields[bookingModel.FieldCheckInDate] = daterange.Format(stay.Start)
		fields[bookingModel.FieldCheckOutDate] = daterange.Format(stay.End)
		fields[bookingModel.FieldPlatform] = platform
		fields[bookingModel.FieldStatus] = bookingModel.StatusConfirmed

		err = s.bookingRepo.Update(ctx, fields, shared.FilterByID(existing.ID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			s.failWrite(fail, room, summary, stay, event.UID, err, res)

			return
		}

		res.Processed++
		res.Updated++

		return
	}

	uid := event.UID
	booking := bookingModel.Booking{
		ID:           uuid.NewString(),
		RoomID:       room.ID,
		GuestName:    summary,
		CheckInDate:  stay.Start,
		CheckOutDate: stay.End,
		Platform:     platform,
		Status:       bookingModel.StatusConfirmed,
		OriginalUID:  &uid,
		Metadata:     gModel.NewMetadata(constant.ContextSystem),
	}

	if err = s.bookingRepo.Insert(ctx, booking); err != nil {
		s.failWrite(fail, room, summary, stay, event.UID, err, res)

		return
	}

	res.Processed++
	res.Inserted++
}

// failWrite reports a store rejection. An exclusion violation means another writer took the nights
// between the conflict check and the write.
func (s *serviceImpl) failWrite(fail func(string, ...any), room roomModel.Room, summary string, stay daterange.Range, uid string, err error, res *dto.SyncResult) {
	if shared.IsPqError(err, constant.PqErrorCodeExclusionViolation) {
		res.Processed++

		fail("conflict: %s (%s~%s) overlaps an existing booking in room %s",
			summary, daterange.Format(stay.Start), daterange.Format(stay.End), room.RoomNumber)

		return
	}

	fail("room %s: event %s could not be saved: %s", room.RoomNumber, uid, err.Error())
}

// Export renders the live bookings of a room as a calendar other platforms can subscribe to.
// Guest identity never leaves the building.
func (s *serviceImpl) Export(ctx context.Context, roomID string) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  bookingModel.Column(bookingModel.FieldCheckInDate),
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			bookingModel.ActiveFilter(),
			gDto.Filter{
				Field:    bookingModel.FieldRoomID,
				Value:    room.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room bookings")

		return res, fmt.Errorf("failed to get room bookings: %w", err)
	}

	events := make([]ical.ExportEvent, len(bookings))
	for i, booking := range bookings {
		events[i] = ical.ExportEvent{
			UID:         booking.ID,
			Summary:     exportSummary,
			Description: "Platform: " + booking.Platform,
			Start:       booking.CheckInDate,
			End:         booking.CheckOutDate,
		}
	}

	res.FileName = fmt.Sprintf("room-%s.ics", room.RoomNumber)
	res.ContentType = constant.ContentTypeCalendar
	res.Content = ical.Render(fmt.Sprintf("Room %s - Bookings", room.RoomNumber), timezone.Location().String(), timezone.Now(), events)

	return res, nil
}
