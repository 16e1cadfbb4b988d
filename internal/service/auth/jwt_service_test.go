package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/config"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-thats-long-enough-for-hmac"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)
		assert.NotNil(t, svc)
		assert.Equal(t, time.Hour, svc.TokenLifetime())
	})

	t.Run("secret too short", func(t *testing.T) {
		t.Parallel()
		cfg := testAuthConfig()
		cfg.JWTSecret = "short"
		svc, err := NewJWTService(cfg)
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()
		cfg := testAuthConfig()
		cfg.JWTSecret = ""
		_, err := NewJWTService(cfg)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID, "token should carry a unique jti")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, "not.a.token")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "another-secret-key-also-long-enough-123"
		otherSvc, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := otherSvc.GenerateToken(ctx, userID, domain.RoleUser)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		impl, ok := svc.(*hmacJWTService)
		require.True(t, ok)

		issued := time.Now().Add(-2 * time.Hour)
		impl.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(ctx, userID, domain.RoleUser)
		require.NoError(t, err)

		// Validate well past expiry plus the clock-skew leeway.
		impl.timeFunc = time.Now
		claims, err := svc.ValidateToken(ctx, token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expired token within leeway is accepted", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		impl, ok := svc.(*hmacJWTService)
		require.True(t, ok)

		// Token expired one minute ago; the two-minute skew allowance
		// should still accept it.
		issued := time.Now().Add(-61 * time.Minute)
		impl.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(ctx, userID, domain.RoleUser)
		require.NoError(t, err)

		impl.timeFunc = time.Now
		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		// alg=none tokens must never validate.
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"uid": userID.String(),
			"sub": userID.String(),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		now := time.Now()
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
			UserID: userID,
			Role:   domain.Role("superuser"),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		token, err := forged.SignedString([]byte(testSecret))
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
