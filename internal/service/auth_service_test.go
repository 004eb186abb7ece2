package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"

	"go.uber.org/zap"
)

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService("admin", "s3cret", "", "test-jwt-secret", 15*time.Minute, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "admin",
		Password: "s3cret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 900, resp.ExpiresIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})

	var unauthorized *domain.ErrUnauthorized
	require.True(t, errors.As(err, &unauthorized))
}

func TestLogin_WrongUsername(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "root",
		Password: "s3cret",
	})

	var unauthorized *domain.ErrUnauthorized
	require.True(t, errors.As(err, &unauthorized))
}

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "admin",
		Password: "s3cret",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Sub)
	assert.Equal(t, "access", claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateAccessToken("not.a.token")

	var unauthorized *domain.ErrUnauthorized
	require.True(t, errors.As(err, &unauthorized))
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuer, err := service.NewAuthService("admin", "s3cret", "", "other-secret", time.Minute, zap.NewNop())
	require.NoError(t, err)

	resp, err := issuer.Login(context.Background(), &domain.LoginRequest{
		Username: "admin",
		Password: "s3cret",
	})
	require.NoError(t, err)

	svc := newTestAuthService(t)
	_, err = svc.ValidateAccessToken(resp.AccessToken)

	var unauthorized *domain.ErrUnauthorized
	require.True(t, errors.As(err, &unauthorized))
}
