package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"intake_backend/internal/config"
	"intake_backend/internal/logger"
	"intake_backend/pkg/apperrors"
)

// AdminClaims - полезная нагрузка токена админ-сессии.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AdminService - аутентификация единственного администратора портала.
// Учетные данные фиксированы в конфигурации (bcrypt-хеш пароля),
// сессия - короткоживущий JWT.
type AdminService interface {
	// Login проверяет учетные данные и выдает токен сессии.
	Login(ctx context.Context, input LoginInput) (token string, expiresAt time.Time, err error)

	// ParseToken проверяет подпись и срок действия токена.
	ParseToken(token string) (*AdminClaims, error)
}

type adminService struct {
	cfg *config.Config
}

func NewAdminService(cfg *config.Config) AdminService {
	return &adminService{cfg: cfg}
}

func (s *adminService) Login(ctx context.Context, input LoginInput) (string, time.Time, error) {
	if input.Email != s.cfg.Admin.Email {
		logger.CtxWarn(ctx, "admin login rejected", "email", input.Email)
		return "", time.Time{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(input.Password)); err != nil {
		logger.CtxWarn(ctx, "admin login rejected: bad password", "email", input.Email)
		return "", time.Time{}, apperrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.Admin.TTLMinutes) * time.Minute)
	claims := AdminClaims{
		Email: input.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Admin.JWTSecret))
	if err != nil {
		return "", time.Time{}, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "admin logged in", "email", input.Email)
	return signed, expiresAt, nil
}

func (s *adminService) ParseToken(tokenStr string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return []byte(s.cfg.Admin.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
