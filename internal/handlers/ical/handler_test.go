package ical_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/ical/mocks"
	"innkeep/internal/domains/ical/model/dto"
	"innkeep/internal/domains/ical/service"
	"innkeep/internal/handlers/ical"
	"innkeep/shared/constant"
	"innkeep/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const (
	roomID        = "5d0f4a9e-3c1b-4b8e-9f57-2f3c8d1e6a10"
	missingRoomID = "c2b7e9d4-0a1f-4e63-8b5d-7f9a1c3e5b20"
)

func newRouter(t *testing.T) (*mocks.MockICal, http.Handler) {
	svc := mocks.NewMockICal(gomock.NewController(t))
	handler := ical.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func TestSync(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().SyncAll(gomock.Any()).Return(dto.SyncResult{
		Processed: 3,
		Inserted:  1,
		Updated:   1,
		Errors:    []string{"room 101 sync failed: fetch failed"},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/ical/sync", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"processed":3`)
	assert.Contains(t, rec.Body.String(), "room 101 sync failed")
}

func TestSync_AlreadyRunning(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().SyncAll(gomock.Any()).Return(dto.SyncResult{}, failure.Conflict(service.MessageSyncRunning))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/ical/sync", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExport(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Export(gomock.Any(), roomID).Return(dto.ExportResponse{
		FileName:    "room-101.ics",
		ContentType: constant.ContentTypeCalendar,
		Content:     "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n",
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ical/export/"+roomID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeCalendar, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `attachment; filename="room-101.ics"`, rec.Header().Get(constant.RequestHeaderContentDisposition))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestExport_UnknownRoom(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Export(gomock.Any(), missingRoomID).Return(dto.ExportResponse{}, failure.NotFound("room not found"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ical/export/"+missingRoomID, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_MalformedRoomID(t *testing.T) {
	_, router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ical/export/x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "roomId must be a valid UUID")
}
