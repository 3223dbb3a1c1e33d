package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	creator, err := NewHmacSessionTokenCreator("test-secret")
	require.NoError(t, err)

	token, err := creator.CreateSessionToken("session-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionId, err := creator.ParseSessionToken(token)
	require.NoError(t, err)
	require.Equal(t, "session-123", sessionId)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	creator, err := NewHmacSessionTokenCreator("test-secret")
	require.NoError(t, err)
	other, err := NewHmacSessionTokenCreator("another-secret")
	require.NoError(t, err)

	token, err := creator.CreateSessionToken("session-123")
	require.NoError(t, err)

	_, err = other.ParseSessionToken(token)
	require.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	creator, err := NewHmacSessionTokenCreator("test-secret")
	require.NoError(t, err)

	_, err = creator.ParseSessionToken("not.a.jwt")
	require.Error(t, err)
}

func TestSessionTokenCreatorRequiresSecret(t *testing.T) {
	_, err := NewHmacSessionTokenCreator("")
	require.Error(t, err)
}
