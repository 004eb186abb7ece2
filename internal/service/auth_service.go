package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

var authTracer = otel.Tracer("service/auth")

const bcryptCost = 12

// AuthService authenticates the single admin principal that may mutate
// the rule registry, and issues/validates the bearer tokens the admin
// routes require.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	accessTTL    time.Duration
	logger       *zap.Logger
}

// NewAuthService creates the admin auth service. When passwordHash is
// empty the plaintext password is hashed at startup, which keeps local
// development free of pre-computed hashes.
func NewAuthService(username, password, passwordHash, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) (*AuthService, error) {
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	}
	return &AuthService{
		username:     username,
		passwordHash: hash,
		jwtSecret:    []byte(jwtSecret),
		accessTTL:    accessTTL,
		logger:       logger,
	}, nil
}

// Login verifies admin credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	_, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warn("admin login failed", zap.String("username", req.Username))
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.signAccessToken()
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("admin logged in")
	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (s *AuthService) signAccessToken() (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  s.username,
		Type: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateAccessToken parses and verifies a bearer token.
func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token claims"}
	}
	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "not an access token"}
	}
	return claims, nil
}
