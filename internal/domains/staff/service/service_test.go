package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"innkeep/config"
	"innkeep/infras/jwt"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/staff/mocks"
	"innkeep/internal/domains/staff/model"
	"innkeep/internal/domains/staff/model/dto"
	"innkeep/internal/domains/staff/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/password"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const staffID = "9b2e7c41-6f0a-4d3b-8e15-c7a4f2d90b38"

func newService(t *testing.T) (*mocks.MockStaff, jwt.JWT, service.Staff) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	repo := mocks.NewMockStaff(ctrl)
	tokens := jwt.New(cfg)

	return repo, tokens, service.New(repo, tokens, otelMocks.NewOtel())
}

func hashed(t *testing.T, plain string) string {
	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return hash
}

func authenticated() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, staffID)
}

func TestLogin(t *testing.T) {
	hash := hashed(t, "correct-horse")

	tests := []struct {
		name     string
		staff    model.Staff
		password string
		wantCode int
	}{
		{
			name:     "valid credentials issue a token pair",
			staff:    model.Staff{ID: staffID, Email: "maid@inn.test", Password: hash, Role: constant.RoleHousekeeper, Active: true},
			password: "correct-horse",
		},
		{
			name:     "unknown email",
			password: "correct-horse",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong password",
			staff:    model.Staff{ID: staffID, Email: "maid@inn.test", Password: hash, Active: true},
			password: "battery-staple",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "deactivated account",
			staff:    model.Staff{ID: staffID, Email: "maid@inn.test", Password: hash},
			password: "correct-horse",
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tokens, svc := newService(t)

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.staff, nil)

			if tt.wantCode == 0 {
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, req, model.FieldLastLogin)

						return nil
					})
			}

			res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maid@inn.test", Password: tt.password})
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			claims, err := tokens.ValidateToken(res.AccessToken, jwt.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, staffID, claims.UserID)
			assert.Equal(t, constant.RoleHousekeeper, claims.Role)
			assert.NotEmpty(t, res.RefreshToken)
		})
	}
}

func TestLogin_LastLoginFailureIsNotFatal(t *testing.T) {
	repo, _, svc := newService(t)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(model.Staff{ID: staffID, Password: hashed(t, "correct-horse"), Active: true}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maid@inn.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestRefreshToken(t *testing.T) {
	_, tokens, svc := newService(t)

	pair, err := tokens.GenerateTokenPair(staffID, "admin@inn.test", constant.RoleAdmin)
	require.NoError(t, err)

	res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: pair.AccessToken})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestRegister(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "new@inn.test",
		Password: "long-enough",
		FullName: "Sari Dewi",
		Role:     constant.RoleHousekeeper,
	}

	t.Run("creates an active account with a hashed password", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, staff model.Staff) error {
				assert.NotEqual(t, req.Password, staff.Password)
				require.NoError(t, password.Verify(req.Password, staff.Password))
				assert.True(t, staff.Active)
				assert.Equal(t, staffID, staff.CreatedBy)

				return nil
			})

		res, err := svc.Register(authenticated(), req)
		require.NoError(t, err)
		assert.Equal(t, req.Email, res.Email)
		assert.Equal(t, constant.RoleHousekeeper, res.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Register(authenticated(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("duplicate email lost to a concurrent insert", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := svc.Register(authenticated(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestMe(t *testing.T) {
	repo, _, svc := newService(t)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Staff, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, staffID, args[model.FieldID])

			return model.Staff{ID: staffID, FullName: "Sari Dewi", Role: constant.RoleHousekeeper}, nil
		})

	res, err := svc.Me(authenticated())
	require.NoError(t, err)
	assert.Equal(t, "Sari Dewi", res.FullName)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{}, nil)

	_, err = svc.Me(authenticated())
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestChangePassword(t *testing.T) {
	current := model.Staff{ID: staffID, Password: hashed(t, "old-password")}

	t.Run("wrong current password", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)

		err := svc.ChangePassword(authenticated(), dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "new-password"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("stores the new hash", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				require.NoError(t, password.Verify("new-password", req[model.FieldPassword].(string)))

				return nil
			})

		err := svc.ChangePassword(authenticated(), dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"})
		require.NoError(t, err)
	})
}
