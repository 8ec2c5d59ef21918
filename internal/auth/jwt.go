package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

var (
	ErrMissingToken = errors.New("missing or invalid token")
	ErrInvalidToken = errors.New("invalid token")
)

var (
	settingsMu sync.RWMutex
	jwtSecret  = []byte("dev-secret-change-me")
	accessTTL  = 15 * time.Minute
)

// Configure sets the signing secret and access token lifetime.
func Configure(secret string, ttl time.Duration) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		accessTTL = ttl
	}
}

func settings() ([]byte, time.Duration) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return jwtSecret, accessTTL
}

func GenerateToken(user models.User) (string, error) {
	secret, ttl := settings()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	secret, _ := settings()
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// TokenClaims parses a "Bearer <token>" header value.
func TokenClaims(authorization string) (*jwt.Token, jwt.MapClaims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, nil, ErrMissingToken
	}

	token, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil || !token.Valid {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, ErrInvalidToken
	}
	return token, claims, nil
}
