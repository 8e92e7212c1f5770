//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/ical"
	"innkeep/infras/jwt"
	"innkeep/infras/kafka"
	"innkeep/infras/line"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/redis"
	"innkeep/infras/s3"
	"innkeep/permissions"
	"innkeep/shared/cache"
	gRepo "innkeep/shared/repository"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"
	"innkeep/transport/scheduler"

	"github.com/google/wire"

	availabilityService "innkeep/internal/domains/availability/service"
	bookingRepository "innkeep/internal/domains/booking/repository"
	bookingService "innkeep/internal/domains/booking/service"
	icalService "innkeep/internal/domains/ical/service"
	notificationService "innkeep/internal/domains/notification/service"
	roomRepository "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"
	staffRepository "innkeep/internal/domains/staff/repository"
	staffService "innkeep/internal/domains/staff/service"
	taskRepository "innkeep/internal/domains/task/repository"
	taskService "innkeep/internal/domains/task/service"

	availabilityHandler "innkeep/internal/handlers/availability"
	bookingHandler "innkeep/internal/handlers/booking"
	icalHandler "innkeep/internal/handlers/ical"
	roomHandler "innkeep/internal/handlers/room"
	staffHandler "innkeep/internal/handlers/staff"
	taskHandler "innkeep/internal/handlers/task"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	line.New,
	ical.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var repositories = wire.NewSet(
	roomRepository.New,
	bookingRepository.New,
	taskRepository.New,
	staffRepository.New,
)

var domains = wire.NewSet(
	notificationService.New,
	roomService.New,
	availabilityService.New,
	bookingService.New,
	icalService.New,
	taskService.New,
	staffService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	staffHandler.New,
	roomHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	icalHandler.New,
	taskHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeScheduler() (*scheduler.Scheduler, error) {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		repositories,
		notificationService.New,
		icalService.New,
		taskService.New,
		scheduler.New,
	)

	return &scheduler.Scheduler{}, nil
}
