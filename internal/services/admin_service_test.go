package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"intake_backend/internal/config"
	"intake_backend/pkg/apperrors"
)

func adminTestConfig(t *testing.T, password string) *config.Config {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Admin.Email = "admin@test.local"
	cfg.Admin.PasswordHash = string(hash)
	cfg.Admin.JWTSecret = "secret-for-tests"
	cfg.Admin.TTLMinutes = 30
	return cfg
}

func TestAdminLoginAndTokenRoundtrip(t *testing.T) {
	cfg := adminTestConfig(t, "correct-horse")
	svc := NewAdminService(cfg)

	token, expiresAt, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@test.local",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@test.local", claims.Email)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	cfg := adminTestConfig(t, "correct-horse")
	svc := NewAdminService(cfg)

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "admin@test.local", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "other@test.local", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	cfg := adminTestConfig(t, "pw")
	svc := NewAdminService(cfg)

	token, _, err := svc.Login(context.Background(), LoginInput{Email: "admin@test.local", Password: "pw"})
	require.NoError(t, err)

	otherCfg := adminTestConfig(t, "pw")
	otherCfg.Admin.JWTSecret = "different-secret"
	otherSvc := NewAdminService(otherCfg)

	_, err = otherSvc.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
