package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	hash, err := svc.HashPassword("sup3rsecret")
	require.NoError(t, err)
	assert.NotEqual(t, "sup3rsecret", hash)

	assert.True(t, svc.CheckPassword("sup3rsecret", hash))
	assert.False(t, svc.CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	token, err := svc.IssueToken(Identity{ID: 42, Email: "a@x.com"})
	require.NoError(t, err)

	ident, err := svc.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.ID)
	assert.Equal(t, "a@x.com", ident.Email)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	// well-signed but already expired
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:  "a@x.com",
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ResolveToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestForeignSignatureRejected(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)
	other := NewCredentialService("other-secret", time.Minute)

	token, err := other.IssueToken(Identity{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = svc.ResolveToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ResolveToken(tok)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	}
}

func TestMissingClaimsRejected(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	// valid signature but no identity claims
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ResolveToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResetTokenIsNotAccessToken(t *testing.T) {
	svc := NewCredentialService("test-secret", time.Minute)

	token, err := svc.IssueResetToken("a@x.com")
	require.NoError(t, err)

	_, err = svc.ResolveToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	email, err := svc.ResolveResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}
