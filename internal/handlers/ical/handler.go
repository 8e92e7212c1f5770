package ical

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/ical/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.ICal
	otel    otel.Otel
}

func New(service service.ICal, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/ical", func(routerGroup chi.Router) {
		routerGroup.Post("/sync", handler.Sync)
		routerGroup.Get("/export/{roomId}", handler.Export)
	})
}

// Sync pulls every configured OTA feed into bookings.
// @Summary Sync OTA calendars
// @Description Fetch each room's Booking.com and Agoda feeds and upsert their events as bookings.
// @Tags ICal
// @Produce json
// @Success 200 {object} response.Data[dto.SyncResult]
// @Failure 409 {object} response.Error "Sync already running"
// @Failure 500 {object} response.Error
// @Router /v1/ical/sync [post]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sync")
	defer scope.End()

	res, err := handler.service.SyncAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sync calendars")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"sync.processed": res.Processed,
		"sync.inserted":  res.Inserted,
		"sync.updated":   res.Updated,
		"sync.errors":    len(res.Errors),
	})

	response.WithJSON(w, http.StatusOK, res)
}

// Export serves a room's active bookings as an iCalendar file.
// @Summary Export room calendar
// @Tags ICal
// @Produce text/calendar
// @Param roomId path string true "Room ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 400 {object} response.Error
// @Router /v1/ical/export/{roomId} [get]
func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Export")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamRoomID)

	if err := validator.ValidateUUID(constant.RequestParamRoomID, roomID); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Export(ctx, roomID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export calendar")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("export.file", res.FileName)

	response.WithAttachment(w, res.ContentType, res.FileName, []byte(res.Content))
}
