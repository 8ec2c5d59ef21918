package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTripsClaims(t *testing.T) {
	Configure("test-secret", time.Minute)

	token, err := GenerateToken(models.User{ID: 7, Username: "ada", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, claims, err := TokenClaims("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims["username"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
	assert.EqualValues(t, 7, claims["sub"])
}

func TestTokenClaims_Rejects(t *testing.T) {
	Configure("test-secret", time.Minute)

	_, _, err := TokenClaims("Token abc")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, _, err = TokenClaims("Bearer not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := GenerateToken(models.User{ID: 1, Username: "x"})
	require.NoError(t, err)
	Configure("another-secret", 0)
	t.Cleanup(func() { Configure("test-secret", time.Minute) })
	_, _, err = TokenClaims("Bearer " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRefreshStore_ExpiryAndRotate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryRefreshStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "old", "ada", time.Hour))

	username, next, err := Rotate(ctx, s, "old", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "ada", username)
	assert.NotEqual(t, "old", next)

	_, err = s.Lookup(ctx, "old")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	now = now.Add(2 * time.Hour)
	_, err = s.Lookup(ctx, next)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	assert.Equal(t, 1, s.Purge())
}
