package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken(7, "other@example.com")
	require.NoError(t, err)

	claims, err := m.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "other@example.com", claims.Email)
}

// Access and refresh tokens are signed with distinct secrets, so each parser
// must reject the other kind.
func TestSecretsAreIndependent(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken(1, "a@b.c")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := m.GenerateAccessToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
