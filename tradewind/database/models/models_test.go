package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("222", "111")
	require.Equal(t, "111", a)
	require.Equal(t, "222", b)

	a, b = CanonicalPair("111", "222")
	require.Equal(t, "111", a)
	require.Equal(t, "222", b)
}

func TestConversationParticipants(t *testing.T) {
	conv := &Conversation{UserAID: "alice", UserBID: "bob"}

	require.True(t, conv.Involves("alice"))
	require.True(t, conv.Involves("bob"))
	require.False(t, conv.Involves("mallory"))

	require.Equal(t, "bob", conv.OtherParticipant("alice"))
	require.Equal(t, "alice", conv.OtherParticipant("bob"))
}

func TestInteractionStatusTerminal(t *testing.T) {
	require.False(t, InteractionPending.IsTerminal())
	require.True(t, InteractionAccepted.IsTerminal())
	require.True(t, InteractionDeclined.IsTerminal())
	require.True(t, InteractionWithdrawn.IsTerminal())
}

func TestIsValidGame(t *testing.T) {
	for _, game := range SupportedGames {
		require.True(t, IsValidGame(game))
	}
	require.False(t, IsValidGame("fortnite"))
	require.False(t, IsValidGame(""))
}
