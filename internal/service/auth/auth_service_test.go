package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placar/internal/config"
	"placar/internal/domain"
	apperrors "placar/pkg/errors"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, jwtSecret string) (*Service, *time.Time) {
	t.Helper()

	cfg := &config.Config{
		AdminUser:     "admin",
		AdminPassword: "s3cret",
		AdminToken:    "static-token",
		JWTSecret:     jwtSecret,
	}
	svc := NewService(cfg, nil)

	now := baseTime
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestLogin_StaticToken(t *testing.T) {
	svc, _ := newTestService(t, "")

	resp, err := svc.Login(context.Background(), domain.LoginRequest{User: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "static-token", resp.Token)
	assert.Nil(t, resp.ExpiresAt)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t, "")

	tests := []struct {
		name string
		req  domain.LoginRequest
	}{
		{name: "wrong password", req: domain.LoginRequest{User: "admin", Password: "nope"}},
		{name: "wrong user", req: domain.LoginRequest{User: "root", Password: "s3cret"}},
		{name: "empty", req: domain.LoginRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, apperrors.Is(err, apperrors.ErrorTypeAuthentication))
			assert.Equal(t, MsgInvalidCredentials, apperrors.PublicMessage(err))
		})
	}
}

func TestLogin_IssuesJWT(t *testing.T) {
	svc, _ := newTestService(t, "jwt-secret")

	resp, err := svc.Login(context.Background(), domain.LoginRequest{User: "admin", Password: "s3cret"})
	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)
	assert.NotEqual(t, "static-token", resp.Token)
	assert.Equal(t, baseTime.Add(DefaultTokenTTL), *resp.ExpiresAt)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, baseTime.Add(DefaultTokenTTL), claims.ExpiresAt.UTC())
}

func TestValidateToken_StaticTokenAlwaysAccepted(t *testing.T) {
	for _, secret := range []string{"", "jwt-secret"} {
		svc, _ := newTestService(t, secret)

		claims, err := svc.ValidateToken(context.Background(), "static-token")
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	svc, now := newTestService(t, "jwt-secret")

	resp, err := svc.Login(context.Background(), domain.LoginRequest{User: "admin", Password: "s3cret"})
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(baseTime.Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(baseTime.Add(time.Hour)),
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  Issuer,
		Subject: "admin",
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(baseTime.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"wrong issuer":   wrongIssuer,
		"no expiry":      noExpiry,
		"alg none":       unsigned,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), token)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrorTypeAuthentication))
		})
	}

	t.Run("expired", func(t *testing.T) {
		*now = baseTime.Add(DefaultTokenTTL + time.Minute)
		_, err := svc.ValidateToken(context.Background(), resp.Token)
		require.Error(t, err)
		assert.Equal(t, MsgUnauthorized, apperrors.PublicMessage(err))
	})
}

func TestValidateToken_JWTNeedsSecret(t *testing.T) {
	signer, _ := newTestService(t, "jwt-secret")
	resp, err := signer.Login(context.Background(), domain.LoginRequest{User: "admin", Password: "s3cret"})
	require.NoError(t, err)

	svc, _ := newTestService(t, "")
	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.Error(t, err)
}
