package staff_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/staff/mocks"
	"innkeep/internal/domains/staff/model/dto"
	"innkeep/internal/domains/staff/service"
	"innkeep/internal/handlers/staff"
	"innkeep/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*mocks.MockStaffService, http.Handler) {
	svc := mocks.NewMockStaffService(gomock.NewController(t))
	handler := staff.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     func(svc *mocks.MockStaffService)
		wantCode int
	}{
		{
			name: "token pair",
			body: `{"email":"maid@inn.test","password":"correct-horse"}`,
			mock: func(svc *mocks.MockStaffService) {
				svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "maid@inn.test", Password: "correct-horse"}).
					Return(dto.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: `{"email":"maid@inn.test","password":"nope"}`,
			mock: func(svc *mocks.MockStaffService) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(dto.TokenResponse{}, failure.Unauthorized(service.MessageInvalidCredentials))
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "email required",
			body:     `{"password":"correct-horse"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not json",
			body:     `email=maid`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			if tt.mock != nil {
				tt.mock(svc)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRegister_RoleMustBeKnown(t *testing.T) {
	_, router := newRouter(t)

	body := `{"email":"new@inn.test","password":"long-enough","full_name":"Sari","role":"owner"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/staff", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
