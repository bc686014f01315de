package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret")
	refreshSecret = []byte("refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := CreateAccessToken(accessSecret, "u1", "admin", time.Now().Add(time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := CreateAccessToken(accessSecret, "u1", "user", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := CreateAccessToken(accessSecret, "u1", "user", time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("nope"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_RejectsOtherAlg(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	tok, err := CreateRefreshToken(refreshSecret, "u2", "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)

	_, err = RefreshClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
}
