package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "painless-shop",
		MaxRefreshCount:        3,
	})
}

func newTestSubject() TokenSubject {
	return TokenSubject{UserID: uuid.New(), PhoneNumber: "09123456789", IsStaff: true}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.UserID.String(), access.UserID)
	assert.Equal(t, "09123456789", access.PhoneNumber)
	assert.True(t, access.IsStaff)
	assert.Equal(t, "painless-shop", access.Issuer)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.PhoneNumber, "refresh tokens carry only the user id")
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_TokenTypes(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		_, err := svc.ValidateToken(token)
		assert.NoError(t, err)
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "painless-shop",
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "someone-else",
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: uuid.NewString(), TokenType: TokenTypeAccess}
		claims.Issuer = "painless-shop"
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		claims := &Claims{TokenType: TokenTypeAccess}
		claims.Issuer = "painless-shop"
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	t.Run("without rotation keeps the refresh token", func(t *testing.T) {
		refreshed, err := svc.RefreshTokenPair(claims, pair.RefreshToken, subject, false)
		require.NoError(t, err)
		assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)
		assert.Equal(t, claims.GetExpiresAtTime(), refreshed.RefreshTokenExpiresAt)

		access, err := svc.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, subject.UserID.String(), access.UserID)
	})

	t.Run("rotation increments the refresh count", func(t *testing.T) {
		refreshed, err := svc.RefreshTokenPair(claims, pair.RefreshToken, subject, true)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

		rotated, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, rotated.RefreshCount)
	})

	t.Run("stops at the max refresh count", func(t *testing.T) {
		exhausted := *claims
		exhausted.RefreshCount = 3
		_, err := svc.RefreshTokenPair(&exhausted, pair.RefreshToken, subject, true)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestClaims_Helpers(t *testing.T) {
	id := uuid.New()
	claims := &Claims{UserID: id.String()}

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	assert.True(t, claims.GetIssuedAtTime().IsZero())
	assert.Zero(t, claims.GetRemainingTTL())

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, claims.GetRemainingTTL())

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.InDelta(t, time.Hour.Seconds(), claims.GetRemainingTTL().Seconds(), 2)
}
