// ABOUTME: Tests for JWT token generation and verification
// ABOUTME: Covers round trips, expiration, wrong secrets, and missing claims

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))

	token, err := verifier.Generate("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))

	token, err := verifier.Generate("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTVerifier([]byte("secret-one-which-is-32-bytes-long!"))
	verifier := NewJWTVerifier([]byte("secret-two-which-is-32-bytes-long!"))

	token, err := issuer.Generate("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))

	_, err := verifier.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	secret := []byte("test-secret-at-least-32-bytes-long")
	verifier := NewJWTVerifier(secret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret-at-least-32-bytes-long"))

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-123"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
