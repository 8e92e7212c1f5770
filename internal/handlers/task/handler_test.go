package task_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/task/mocks"
	"innkeep/internal/domains/task/model/dto"
	"innkeep/internal/domains/task/service"
	"innkeep/internal/handlers/task"
	"innkeep/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const taskID = "0f6c2b8a-1d4e-4f7a-9c3b-5e8d2a7f1b60"

func newRouter(t *testing.T) (*mocks.MockTaskService, http.Handler) {
	svc := mocks.NewMockTaskService(gomock.NewController(t))
	handler := task.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func TestClaim(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "claimed", wantCode: http.StatusOK},
		{name: "lost the race", err: failure.Conflict(service.MessageAlreadyClaimed), wantCode: http.StatusConflict},
		{name: "unknown task", err: failure.NotFound("task not found"), wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)

			svc.EXPECT().Claim(gomock.Any(), taskID).Return(tt.err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/"+taskID+"/claim", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     bool
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "completed",
			body:     `{"taskId":"` + taskID + `","imageUrl":"https://cdn.inn.test/tasks/a.jpg"}`,
			mock:     true,
			wantCode: http.StatusOK,
		},
		{
			name:     "task id must be a uuid",
			body:     `{"taskId":"42","imageUrl":"https://cdn.inn.test/tasks/a.jpg"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "image url must be a url",
			body:     `{"taskId":"` + taskID + `","imageUrl":"not a url"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "store failure surfaces its message",
			body:     `{"taskId":"` + taskID + `","imageUrl":"https://cdn.inn.test/tasks/a.jpg"}`,
			mock:     true,
			err:      io.ErrUnexpectedEOF,
			wantCode: http.StatusInternalServerError,
			wantBody: io.ErrUnexpectedEOF.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)

			if tt.mock {
				svc.EXPECT().Complete(gomock.Any(), dto.CompleteTaskRequest{
					TaskID:   taskID,
					ImageURL: "https://cdn.inn.test/tasks/a.jpg",
				}).Return(tt.err)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/complete", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUploadProof(t *testing.T) {
	svc, router := newRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="room.jpg"`)
	header.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	svc.EXPECT().UploadProof(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, file dto.ProofFile) (dto.UploadProofResponse, error) {
			assert.Equal(t, "room.jpg", file.Name)
			assert.Equal(t, "image/jpeg", file.ContentType)
			assert.Equal(t, int64(len("jpeg bytes")), file.Size)

			return dto.UploadProofResponse{URL: "https://cdn.inn.test/tasks/room.jpg"}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/photos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://cdn.inn.test/tasks/room.jpg")
}

func TestUploadProof_MissingFile(t *testing.T) {
	_, router := newRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no photo"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/photos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyAndReject(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Verify(gomock.Any(), taskID).Return(failure.UnprocessableEntity("cannot verify a task that is accepted"))
	svc.EXPECT().Reject(gomock.Any(), taskID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/"+taskID+"/verify", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/"+taskID+"/reject", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerate(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Generate(gomock.Any()).Return(dto.GenerateResult{
		Message: dto.MessageGenerated,
		Created: 2,
		Errors:  []string{"Failed to create task for booking b-3: boom"},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tasks/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":2`)
}

func TestTaskRoutes_RejectMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
	}{
		{name: "claim", method: http.MethodPost, target: "/v1/tasks/abc/claim"},
		{name: "verify", method: http.MethodPost, target: "/v1/tasks/abc/verify"},
		{name: "reject", method: http.MethodPost, target: "/v1/tasks/abc/reject"},
		{name: "get", method: http.MethodGet, target: "/v1/tasks/abc"},
		{name: "housekeeper filter", method: http.MethodGet, target: "/v1/tasks?housekeeper_id=system"},
		{name: "room filter", method: http.MethodGet, target: "/v1/tasks?room_id=101"},
		{name: "date filter", method: http.MethodGet, target: "/v1/tasks?scheduled_date=16-02-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
