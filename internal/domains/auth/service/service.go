package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/internal/domains/auth/model/dto"
	userModel "hostel/internal/domains/user/model"
	userDto "hostel/internal/domains/user/model/dto"
	userRepo "hostel/internal/domains/user/repository"
	"hostel/permissions"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/password"
	"hostel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgDeactivated        = "user account is deactivated"
	msgInvalidToken       = "invalid or expired token"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	Me(ctx context.Context) (userDto.UserResponse, error)
	// Authenticate resolves a bearer token to the identity of an active stored user.
	Authenticate(ctx context.Context, token string) (permissions.Identity, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailFilter := gDto.And(gDto.Filter{
		Field:    userModel.FieldEmail,
		Operator: gDto.FilterOperatorEq,
		Value:    userDto.NormalizeEmail(req.Email),
		Table:    userModel.TableName,
	})

	user, err := s.userRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user for login")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString(msgInvalidCredentials)
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString(msgInvalidCredentials)
	}

	if !user.Active {
		return res, failure.BadRequestFromString(msgDeactivated)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, user.ID)

	if err := s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return res, err
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity, ok := permissions.IdentityFromContext(ctx)
	if !ok {
		return res, failure.Unauthorized(msgInvalidToken)
	}

	user, err := s.activeUser(ctx, identity.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Authenticate(ctx context.Context, token string) (identity permissions.Identity, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Authenticate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		msg := msgInvalidToken
		if errors.Is(err, jwt.ErrExpiredToken) {
			msg = jwt.ErrExpiredToken.Error()
		}

		return identity, failure.Unauthorized(msg)
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return identity, err
	}

	role, err := permissions.ParseRole(user.Role)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("stored user has an unknown role")

		return identity, failure.Unauthorized(msgInvalidToken)
	}

	return permissions.Identity{ID: user.ID, Role: role}, nil
}

// activeUser loads the stored user behind a token. Missing or inactive users are unauthorized.
func (s *serviceImpl) activeUser(ctx context.Context, id string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.Unauthorized("user no longer exists")
	}

	if !user.Active {
		return user, failure.Unauthorized(msgDeactivated)
	}

	return user, nil
}
