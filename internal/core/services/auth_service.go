package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/namboy94/papio/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single configured user and issues bearer
// tokens for the API.
type AuthService struct {
	username     string
	passwordHash string
	jwtSecret    []byte
	jwtIssuer    string
	jwtExpiry    time.Duration
}

// NewAuthService creates a new AuthService. The password hash is a bcrypt
// hash of the configured password.
func NewAuthService(username, passwordHash, jwtSecret, jwtIssuer string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		jwtIssuer:    jwtIssuer,
		jwtExpiry:    jwtExpiry,
	}
}

// Login verifies the credentials and returns a signed token plus its expiry.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if username != s.username {
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}
