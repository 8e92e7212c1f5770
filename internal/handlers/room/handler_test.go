package room_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/room/mocks"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/handlers/room"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const roomID = "5d0f4a9e-3c1b-4b8e-9f57-2f3c8d1e6a10"

func newRouter(t *testing.T) (*mocks.MockRoomService, http.Handler) {
	svc := mocks.NewMockRoomService(gomock.NewController(t))
	handler := room.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func TestCreateRoom(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     func(svc *mocks.MockRoomService)
		wantCode int
	}{
		{
			name: "created",
			body: `{"room_number":"101","room_type":"Double","ical_booking_url":"https://ota.example/101.ics"}`,
			mock: func(svc *mocks.MockRoomService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, req dto.CreateRoomRequest) (dto.RoomResponse, error) {
						assert.Equal(t, "101", req.RoomNumber)
						require.NotNil(t, req.ICalBookingURL)

						return dto.RoomResponse{ID: "r-1", RoomNumber: "101", Status: "clean"}, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing room number",
			body:     `{"room_type":"Double"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown status",
			body:     `{"room_number":"101","status":"haunted"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate room number",
			body: `{"room_number":"101"}`,
			mock: func(svc *mocks.MockRoomService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.RoomResponse{}, failure.Conflict("room number already exists"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			if tt.mock != nil {
				tt.mock(svc)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/rooms", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestGetRooms_Filters(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error) {
			assert.Equal(t, "rooms.room_number", params.SortBy)
			require.Len(t, filter.Filters, 2)

			typeFilter, ok := filter.Filters[0].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, gDto.FilterOperatorLike, typeFilter.Operator)
			assert.Equal(t, "Double", typeFilter.Value)

			statusFilter, ok := filter.Filters[1].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, gDto.FilterOperatorEq, statusFilter.Operator)
			assert.Equal(t, "dirty", statusFilter.Value)

			return dto.GetRoomsResponse{Rooms: []dto.RoomResponse{{ID: "r-1"}}, TotalPage: 1, TotalData: 1}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms?room_type=Double&status=dirty&sort_by=room_number", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data dto.GetRoomsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.TotalData)
}

func TestGetRooms_UnknownSortColumnIsDropped(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetRoomsResponse, error) {
			assert.Empty(t, params.SortBy)

			return dto.GetRoomsResponse{}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms?sort_by=password", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoomByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Get(gomock.Any(), roomID).Return(dto.RoomResponse{}, failure.NotFound("room not found"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/"+roomID, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Update(gomock.Any(), gomock.Any(), roomID).
			DoAndReturn(func(_ any, req dto.UpdateRoomRequest, _ string) error {
				assert.Equal(t, "dirty", req.Status)

				return nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/v1/rooms/"+roomID, strings.NewReader(`{"status":"dirty"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete blocked by bookings", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Delete(gomock.Any(), roomID).Return(failure.Conflict("room has bookings"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/rooms/"+roomID, nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRoomRoutes_RejectMalformedIDs(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			_, router := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/v1/rooms/101", strings.NewReader(`{"status":"dirty"}`)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
