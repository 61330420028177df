package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("super-secret", "planner", 0)
	assert.Equal(t, 604800*time.Second, issuer.TTL())

	token, issued, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, issued.SessionID())

	claims, err := issuer.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, issued.SessionID(), claims.SessionID())
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "planner", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue("u1")
	require.NoError(t, err)

	_, err = issuer.Resolve(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	t.Parallel()

	good := NewTokenIssuer("right-secret", "planner", time.Hour)
	other := NewTokenIssuer("wrong-secret", "planner", time.Hour)
	foreign := NewTokenIssuer("right-secret", "someone-else", time.Hour)

	token, _, err := other.Issue("u1")
	require.NoError(t, err)
	_, err = good.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, _, err = foreign.Issue("u1")
	require.NoError(t, err)
	_, err = good.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = good.Resolve("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: "planner"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = good.Resolve(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
