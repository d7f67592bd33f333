package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")

	token, err := svc.GeneratePlayerToken("ABCDE", "p_12345678")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidatePlayerToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE", claims.RoomCode)
	assert.Equal(t, "p_12345678", claims.PlayerID)
}

func TestPlayerTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a").GeneratePlayerToken("ABCDE", "p_1")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").ValidatePlayerToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPlayerTokenGarbage(t *testing.T) {
	svc := NewAuthService("test-secret")
	_, err := svc.ValidatePlayerToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewPlayerID(t *testing.T) {
	a := NewPlayerID()
	b := NewPlayerID()
	assert.True(t, strings.HasPrefix(a, "p_"))
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)
}
