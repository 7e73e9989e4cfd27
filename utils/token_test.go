package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "alice", "admin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Nickname)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken("alice@example.com")
	require.NoError(t, err)

	email, err := ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	// A session token is not a reset token.
	session, err := GenerateToken(1, "alice", "user")
	require.NoError(t, err)
	_, err = ParseResetToken(session)
	assert.Error(t, err)
}
