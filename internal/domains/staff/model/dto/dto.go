package dto

import (
	"time"

	"innkeep/infras/jwt"
	"innkeep/internal/domains/staff/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email,max=100"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role"      validate:"required,oneof=admin housekeeper"`
}

func (r *RegisterRequest) ToModel(user, hashedPassword string) model.Staff {
	return model.Staff{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		FullName: r.FullName,
		Role:     r.Role,
		Active:   true,
		Metadata: gModel.NewMetadata(user),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

type StaffResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (s *StaffResponse) FromModel(model model.Staff) {
	s.ID = model.ID
	s.Email = model.Email
	s.FullName = model.FullName
	s.Role = model.Role
	s.Active = model.Active
	s.Metadata.FromModel(model.Metadata)

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		s.LastLogin = &lastLogin
	}
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}
