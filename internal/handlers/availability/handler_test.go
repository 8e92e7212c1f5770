package availability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/availability/mocks"
	"innkeep/internal/domains/availability/model/dto"
	"innkeep/internal/handlers/availability"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		mock     bool
		wantCode int
	}{
		{name: "valid range", query: "?from=2026-02-14&to=2026-02-16", mock: true, wantCode: http.StatusOK},
		{name: "missing to", query: "?from=2026-02-14", wantCode: http.StatusBadRequest},
		{name: "missing both", wantCode: http.StatusBadRequest},
		{name: "not a date", query: "?from=tomorrow&to=2026-02-16", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAvailability(gomock.NewController(t))
			handler := availability.New(svc, otelMocks.NewOtel())

			router := chi.NewRouter()
			router.Route("/v1", handler.Router)

			if tt.mock {
				svc.EXPECT().Search(gomock.Any(), dto.SearchRequest{From: "2026-02-14", To: "2026-02-16"}).
					Return(dto.SearchResponse{From: "2026-02-14", To: "2026-02-16", Nights: 2, Rooms: []dto.AvailableRoom{{RoomNumber: "101"}}}, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/availability"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
