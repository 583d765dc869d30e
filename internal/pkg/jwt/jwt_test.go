package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", NewMemoryRevocationStore())

	tokenString, expiresAt, err := svc.GenerateAccessToken(AccessClaims{
		UserID:     7,
		Username:   "asad",
		EmployeeID: 12,
		ERPID:      40123,
		Grade:      9,
	})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	raw, err := token.AsMap(context.Background())
	require.NoError(t, err)

	claims, err := ParseAccessClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(40123), claims.ERPID)
	assert.Equal(t, int64(12), claims.EmployeeID)
	assert.Equal(t, 9, claims.Grade)
	assert.Equal(t, "asad", claims.Username)
	assert.NotEmpty(t, claims.TokenID)
}

func TestParseAccessClaims_RejectsWrongType(t *testing.T) {
	_, err := ParseAccessClaims(map[string]interface{}{
		"type":    "refresh",
		"jti":     "x",
		"user_id": float64(1),
		"erp_id":  float64(2),
	})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestParseAccessClaims_MissingERPID(t *testing.T) {
	_, err := ParseAccessClaims(map[string]interface{}{
		"type":    "access",
		"jti":     "x",
		"user_id": float64(1),
	})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	now := time.Now()

	require.NoError(t, store.Revoke(ctx, "old", now.Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := store.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, _ = store.IsRevoked(ctx, "old")
	assert.False(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "live")
	assert.True(t, revoked)
}
