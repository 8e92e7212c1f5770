package router

import (
	"innkeep/internal/handlers/availability"
	"innkeep/internal/handlers/booking"
	"innkeep/internal/handlers/ical"
	"innkeep/internal/handlers/room"
	"innkeep/internal/handlers/staff"
	"innkeep/internal/handlers/task"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Staff        staff.Handler
	Room         room.Handler
	Availability availability.Handler
	Booking      booking.Handler
	ICal         ical.Handler
	Task         task.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	App            middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.ICal.Router(routerGroup)
		r.DomainHandlers.Task.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, app middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		App:            app,
	}
}
