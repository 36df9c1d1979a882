package jwt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel/config"
	"hostel/infras/jwt"
)

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "hostel"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "owner@example.com", "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)

	refresh, err := svc.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, refresh.Type)
}

func TestValidateToken_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "owner@example.com", "owner")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "refresh token signed with another secret")

	_, err = svc.ValidateToken(ctx, "not.a.token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	other := &config.Config{}
	other.JWT.AccessSecret = "different"
	other.JWT.AccessExpireMin = 15

	_, err = jwt.New(other).ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = -1

	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "owner@example.com", "owner")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, jwt.ErrMissingToken)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.ErrorIs(t, err, jwt.ErrMalformed)

	_, err = jwt.ExtractTokenFromHeader("Bearer ")
	assert.ErrorIs(t, err, jwt.ErrMalformed)
}

func TestValidateToken_IssuerMismatch(t *testing.T) {
	ctx := context.Background()

	pair, err := newService().GenerateTokenPair(ctx, "user-1", "owner@example.com", "owner")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Name = "another-service"
	cfg.JWT.AccessSecret = "access-secret"

	_, err = jwt.New(cfg).ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
