package availability

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/availability/model/dto"
	"innkeep/internal/domains/availability/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.Search)
}

// Search lists rooms that are free for the whole stay.
// @Summary Search availability
// @Description List rooms with no active booking overlapping [from, to) and not under maintenance.
// @Tags Availability
// @Produce json
// @Param from query string true "Check-in date (YYYY-MM-DD)"
// @Param to query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SearchResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Search")
	defer scope.End()

	req := dto.SearchRequest{
		From: r.URL.Query().Get(constant.RequestParamFrom),
		To:   r.URL.Query().Get(constant.RequestParamTo),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Search(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
