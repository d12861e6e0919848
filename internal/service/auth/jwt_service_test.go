package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/numina/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

func testConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60}
}

func TestNewJWTService_RejectsWeakConfig(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(testConfig(), WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)

	ctx := context.Background()
	token, err := svc.GenerateToken(ctx, "ops")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "access", claims.TokenType)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
	assert.NotEmpty(t, claims.ID)

	_, err = svc.GenerateToken(ctx, "  ")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuedAt := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	issuer, err := NewJWTService(testConfig(), WithTimeFunc(func() time.Time { return issuedAt }))
	require.NoError(t, err)
	token, err := issuer.GenerateToken(ctx, "ops")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later, err := NewJWTService(testConfig(), WithTimeFunc(func() time.Time {
			return issuedAt.Add(2 * time.Hour)
		}))
		require.NoError(t, err)
		_, err = later.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		earlier, err := NewJWTService(testConfig(), WithTimeFunc(func() time.Time {
			return issuedAt.Add(-time.Hour)
		}))
		require.NoError(t, err)
		_, err = earlier.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "another-secret-that-is-32-chars-long!!",
			TokenLifetimeMinutes: 60,
		}, WithTimeFunc(func() time.Time { return issuedAt }))
		require.NoError(t, err)
		_, err = other.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := issuer.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := issuer.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong token type", func(t *testing.T) {
		claims := jwtCustomClaims{
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "numina",
				Subject:   "ops",
				IssuedAt:  jwt.NewNumericDate(issuedAt),
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.ValidateToken(ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
