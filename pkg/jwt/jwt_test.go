package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-id-1", "alice", true, false, "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "user-id-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.True(t, claims.IsVerified)
	require.False(t, claims.IsAcceptingMessages)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-id-1", "alice", true, true, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-id-1", "alice", true, true, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	require.Error(t, err)
}
