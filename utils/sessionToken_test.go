package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	token, err := GenerateSessionToken("session-1", "staff")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "staff", claims.UserType)
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	_, err := ValidateSessionToken("v2.local.not-a-real-token")
	assert.Error(t, err)
}

func TestSessionTokenMisconfiguredKeyReturnsError(t *testing.T) {
	// A lost or truncated key surfaces as an error on the request path, not a
	// process exit.
	t.Setenv("SYMMETRIC_KEY", "")
	_, err := GetSymmetricKey()
	assert.Error(t, err)
	_, err = GenerateSessionToken("session-1", "staff")
	assert.Error(t, err)
	_, err = ValidateSessionToken("v2.local.whatever")
	assert.Error(t, err)

	t.Setenv("SYMMETRIC_KEY", "too-short")
	_, err = GetSymmetricKey()
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsWrongKey(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	token, err := GenerateSessionToken("session-1", "staff")
	require.NoError(t, err)

	t.Setenv("SYMMETRIC_KEY", "ffffffffffffffffffffffffffffffff")
	_, err = ValidateSessionToken(token)
	assert.Error(t, err)
}
