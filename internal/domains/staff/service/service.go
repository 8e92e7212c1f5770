package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Staff=MockStaffService

import (
	"context"
	"fmt"

	"innkeep/infras/jwt"
	"innkeep/infras/otel"
	"innkeep/internal/domains/staff/model"
	"innkeep/internal/domains/staff/model/dto"
	"innkeep/internal/domains/staff/repository"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/password"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	MessageInvalidCredentials = "invalid email or password"
	MessageDeactivated        = "staff account is deactivated"
	MessageEmailRegistered    = "email already registered"
	MessageInvalidRefresh     = "invalid refresh token"
	MessageWrongPassword      = "current password is incorrect"
)

type Staff interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.StaffResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	Me(ctx context.Context) (dto.StaffResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	repo       repository.Staff
	jwtService jwt.JWT
	otel       otel.Otel
}

func New(repo repository.Staff, jwtService jwt.JWT, otel otel.Otel) Staff {
	return &serviceImpl{
		repo:       repo,
		jwtService: jwtService,
		otel:       otel,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	exists, err := s.repo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return res, fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(MessageEmailRegistered) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := req.ToModel(shared.UserFromContext(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, staff); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, failure.Conflict(MessageEmailRegistered) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create staff")

		return res, fmt.Errorf("failed to create staff: %w", err)
	}

	res.FromModel(staff)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := emailFilter(req.Email)

	staff, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == "" {
		_ = password.Verify(req.Password, "")

		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(MessageInvalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, staff.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(MessageInvalidCredentials) // nolint:wrapcheck
	}

	if !staff.Active {
		return res, failure.Forbidden(MessageDeactivated) // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(staff.ID, staff.Email, staff.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}

	if err := s.repo.Update(ctx, shared.TransformFields(lastLogin, staff.ID), filter); err != nil {
		log.Warn().Err(err).Str("staff_id", staff.ID).Msg("failed to update last login")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized(MessageInvalidRefresh) // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) current(ctx context.Context) (model.Staff, error) {
	staff, err := s.repo.Get(ctx, shared.FilterByID(shared.UserFromContext(ctx), model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return staff, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == "" {
		return staff, failure.NotFound("staff not found") // nolint:wrapcheck
	}

	return staff, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer scope.TraceIfError(&err)

	staff, err := s.current(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(staff)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	staff, err := s.current(ctx)
	if err != nil {
		return err
	}

	if err := password.Verify(req.CurrentPassword, staff.Password); err != nil {
		return failure.BadRequestFromString(MessageWrongPassword) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	filter := shared.FilterByID(staff.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(updatePassword, staff.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
