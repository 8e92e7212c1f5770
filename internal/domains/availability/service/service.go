package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeep/infras/otel"
	"innkeep/internal/domains/availability/model/dto"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingRepo "innkeep/internal/domains/booking/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	Search(ctx context.Context, req dto.SearchRequest) (dto.SearchResponse, error)
}

type serviceImpl struct {
	roomRepo    roomRepo.Room
	bookingRepo bookingRepo.Booking
	otel        otel.Otel
}

func New(roomRepo roomRepo.Room, bookingRepo bookingRepo.Booking, otel otel.Otel) Availability {
	return &serviceImpl{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		otel:        otel,
	}
}

// Search lists rooms free for every night of [from, to). The answer is a snapshot;
// admission rechecks before it writes.
func (s *serviceImpl) Search(ctx context.Context, req dto.SearchRequest) (res dto.SearchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(&err)

	rng, err := req.Range()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  roomModel.TableName + "." + roomModel.FieldRoomNumber,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingModel.OverlapFilter(rng), bookingModel.FieldRoomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get overlapping bookings")

		return res, fmt.Errorf("failed to get overlapping bookings: %w", err)
	}

	booked := make(map[string]struct{}, len(bookings))
	for _, booking := range bookings {
		booked[booking.RoomID] = struct{}{}
	}

	available := make([]roomModel.Room, 0, len(rooms))

	for _, room := range rooms {
		if room.Status == roomModel.StatusMaintenance {
			continue
		}

		if _, ok := booked[room.ID]; ok {
			continue
		}

		available = append(available, room)
	}

	res.FromModels(rng, available)

	return res, nil
}
