package service

import (
	"testing"
	"time"

	apperrors "erp-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour, zap.NewNop())

	access, refresh, err := svc.GenerateTokens(7, 3)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, uint64(3), claims.RoleID)
	assert.False(t, claims.IsRefreshToken)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
	assert.NotEqual(t, claims.ID, refreshClaims.ID)
}

func TestJWTService_Rejections(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour, zap.NewNop())

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService("secret", -time.Minute, time.Hour, zap.NewNop())
		access, _, err := expired.GenerateTokens(1, 1)
		require.NoError(t, err)
		_, err = svc.ValidateToken(access)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := NewJWTService("other", time.Minute, time.Hour, zap.NewNop())
		access, _, err := other.GenerateTokens(1, 1)
		require.NoError(t, err)
		_, err = svc.ValidateToken(access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{UserID: 1})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(raw)
		assert.Error(t, err)
	})
}
