package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate test RSA key")
	return key
}

func TestIssueAccessToken_RoundTrip(t *testing.T) {
	key := testKey(t)

	token, jti, err := IssueAccessToken("user-123", "alice", key)
	require.NoError(t, err, "IssueAccessToken should not return an error")
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti, "The jti keys the Redis session and must be set")

	claims, err := ParseAndVerifySign(token, &key.PublicKey)
	require.NoError(t, err, "A freshly issued token should verify")

	assert.Equal(t, "user-123", claims.Sub)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, jti, claims.Jti, "Parsed jti should match the issued one")
	assert.Greater(t, claims.Exp, time.Now().Unix(), "Token should not be expired yet")
}

func TestParseAndVerifySign_WrongKey(t *testing.T) {
	key := testKey(t)
	otherKey := testKey(t)

	token, _, err := IssueAccessToken("user-123", "alice", key)
	require.NoError(t, err)

	claims, err := ParseAndVerifySign(token, &otherKey.PublicKey)
	assert.Error(t, err, "A token signed with a different key should not verify")
	assert.Nil(t, claims)
}

func TestParseAndVerifySign_Expired(t *testing.T) {
	key := testKey(t)

	expired := &Claims{
		Sub:      "user-123",
		Username: "alice",
		Jti:      "jti-1",
		Iat:      time.Now().Add(-2 * time.Hour).Unix(),
		Exp:      time.Now().Add(-time.Hour).Unix(),
	}

	token, err := GenerateSign(expired, key)
	require.NoError(t, err)

	claims, err := ParseAndVerifySign(token, &key.PublicKey)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired, "An expired token should surface jwt.ErrTokenExpired")
	assert.Nil(t, claims)
}

func TestParseAndVerifySign_Garbage(t *testing.T) {
	key := testKey(t)

	claims, err := ParseAndVerifySign("not.a.token", &key.PublicKey)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
