// Package auth checks admin credentials and issues the tokens admin
// routes accept.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"placar/internal/config"
	"placar/internal/domain"
	apperrors "placar/pkg/errors"
	"placar/pkg/logger"
)

// Issuer is the iss claim of admin tokens
const Issuer = "placar"

// DefaultTokenTTL is the lifetime of an issued admin JWT
const DefaultTokenTTL = 24 * time.Hour

const (
	MsgInvalidCredentials = "invalid credentials"
	MsgUnauthorized       = "unauthorized"
)

// Service validates admin credentials. Without a JWT secret the static
// admin token is the only credential; with one, signed tokens are issued
// at login and accepted alongside the static token.
type Service struct {
	user      string
	password  string
	token     string
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

// NewService creates a new auth service from the admin settings in cfg
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}

	return &Service{
		user:      cfg.AdminUser,
		password:  cfg.AdminPassword,
		token:     cfg.AdminToken,
		jwtSecret: secret,
		tokenTTL:  DefaultTokenTTL,
		now:       time.Now,
		logger:    log,
	}
}

// Login exchanges admin credentials for a token
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if !secureEqual(req.User, s.user) || !secureEqual(req.Password, s.password) {
		s.logger.Warn("Admin login rejected")
		return nil, apperrors.NewAuthenticationError(MsgInvalidCredentials)
	}

	if s.jwtSecret == nil {
		s.logger.Info("Admin logged in with static token")
		return &domain.LoginResponse{Token: s.token}, nil
	}

	token, expiresAt, err := s.issueJWT()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	s.logger.WithField("expires_at", expiresAt).Info("Admin logged in")
	return &domain.LoginResponse{Token: token, ExpiresAt: &expiresAt}, nil
}

// ValidateToken accepts the static admin token or, when configured, a valid signed token
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.AdminClaims, error) {
	if token == "" {
		return nil, apperrors.NewAuthenticationError(MsgUnauthorized)
	}

	if secureEqual(token, s.token) {
		return &domain.AdminClaims{Subject: s.user}, nil
	}

	if s.jwtSecret == nil {
		return nil, apperrors.NewAuthenticationError(MsgUnauthorized)
	}

	claims, err := s.parseJWT(token)
	if err != nil {
		s.logger.WithError(err).Debug("Admin token rejected")
		return nil, apperrors.NewAuthenticationError(MsgUnauthorized)
	}
	return claims, nil
}

func (s *Service) issueJWT() (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.tokenTTL).Truncate(time.Second)

	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   s.user,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *Service) parseJWT(tokenString string) (*domain.AdminClaims, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Subject != s.user {
		return nil, fmt.Errorf("token subject %q is not the admin", claims.Subject)
	}

	return &domain.AdminClaims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// secureEqual compares secrets in constant time. Empty expected values never match.
func secureEqual(given, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
