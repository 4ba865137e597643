package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

func newMessagingFixture() (*MessagingService, *fakeConversations, *fakeMessages) {
	conversations := newFakeConversations()
	messages := newFakeMessages()
	svc := NewMessagingService(conversations, messages, &fakeUsers{}, testModeration())
	return svc, conversations, messages
}

func TestStartConversationIsIdempotent(t *testing.T) {
	svc, _, _ := newMessagingFixture()
	ctx := context.Background()

	first, err := svc.StartConversation(ctx, "alice", "bob")
	require.NoError(t, err)

	// Opening from the other side resolves to the same canonical row.
	second, err := svc.StartConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, err = svc.StartConversation(ctx, "alice", "alice")
	require.True(t, repositories.IsValidation(err))
}

func TestConversationHiddenFromNonParticipants(t *testing.T) {
	svc, conversations, _ := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")

	_, err := svc.GetMessages(ctx, conv.ID, "mallory", 0, nil)
	require.True(t, repositories.IsNotFound(err))

	err = svc.PinConversation(ctx, conv.ID, "mallory", true)
	require.True(t, repositories.IsNotFound(err))

	err = svc.DeleteConversation(ctx, conv.ID, "mallory")
	require.True(t, repositories.IsNotFound(err))

	// The same shape as a genuinely missing conversation.
	_, missingErr := svc.GetMessages(ctx, 9999, "alice", 0, nil)
	require.True(t, repositories.IsNotFound(missingErr))
}

func TestSendMessage(t *testing.T) {
	svc, conversations, _ := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")

	message, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "alice", Content: "hey"})
	require.NoError(t, err)
	require.Equal(t, "hey", message.Content)
	require.False(t, message.Read)

	_, err = svc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "alice", Content: ""})
	require.True(t, repositories.IsValidation(err))

	_, err = svc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "mallory", Content: "hi"})
	require.True(t, repositories.IsNotFound(err))

	_, err = svc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "bob", Content: "b4dw0rd"})
	require.True(t, repositories.IsValidation(err))
}

func TestEditMessageSenderOnly(t *testing.T) {
	svc, conversations, messages := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")
	message := messages.add(&models.Message{ConversationID: conv.ID, SenderID: "alice", Content: "original"})

	_, err := svc.EditMessage(ctx, message.ID, "bob", "hijacked")
	require.True(t, repositories.IsValidation(err))

	edited, err := svc.EditMessage(ctx, message.ID, "alice", "fixed typo")
	require.NoError(t, err)
	require.Equal(t, "fixed typo", edited.Content)
	require.NotNil(t, edited.EditedAt)
}

func TestDeleteMessageTombstones(t *testing.T) {
	svc, conversations, messages := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")
	message := messages.add(&models.Message{ConversationID: conv.ID, SenderID: "alice", Content: "oops"})

	_, err := svc.DeleteMessage(ctx, message.ID, "bob")
	require.True(t, repositories.IsValidation(err))

	deleted, err := svc.DeleteMessage(ctx, message.ID, "alice")
	require.NoError(t, err)
	require.True(t, deleted.Deleted())
	require.Equal(t, config.MessageTombstone, deleted.Content)

	// Repeat delete is a no-op returning the tombstone.
	again, err := svc.DeleteMessage(ctx, message.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, deleted.DeletedAt, again.DeletedAt)

	// Tombstoned messages cannot be edited.
	_, err = svc.EditMessage(ctx, message.ID, "alice", "resurrect")
	require.True(t, repositories.IsNotFound(err))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, conversations, messages := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")
	incoming := messages.add(&models.Message{ConversationID: conv.ID, SenderID: "bob", Content: "hi"})
	outgoing := messages.add(&models.Message{ConversationID: conv.ID, SenderID: "alice", Content: "hello"})

	require.NoError(t, svc.MarkRead(ctx, conv.ID, "alice"))
	require.True(t, incoming.Read)
	require.False(t, outgoing.Read)

	require.NoError(t, svc.MarkRead(ctx, conv.ID, "alice"))
	require.True(t, incoming.Read)
}

func TestSetReactions(t *testing.T) {
	svc, conversations, messages := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")
	message := messages.add(&models.Message{ConversationID: conv.ID, SenderID: "alice", Content: "deal?"})

	// Any participant can react, not just the sender.
	updated, err := svc.SetReactions(ctx, message.ID, "bob", map[string][]string{"👍": {"bob"}})
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, updated.Reactions["👍"])

	// The map is replaced wholesale; last writer wins.
	updated, err = svc.SetReactions(ctx, message.ID, "alice", map[string][]string{"🔥": {"alice"}})
	require.NoError(t, err)
	require.NotContains(t, updated.Reactions, "👍")

	updated, err = svc.SetReactions(ctx, message.ID, "alice", nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Reactions)
	require.Empty(t, updated.Reactions)

	_, err = svc.SetReactions(ctx, message.ID, "mallory", map[string][]string{"👀": {"mallory"}})
	require.True(t, repositories.IsNotFound(err))
}

func TestPinConversation(t *testing.T) {
	svc, conversations, _ := newMessagingFixture()
	ctx := context.Background()

	conv := conversations.add("alice", "bob")

	require.NoError(t, svc.PinConversation(ctx, conv.ID, "alice", true))
	require.True(t, conv.Pinned)

	require.NoError(t, svc.PinConversation(ctx, conv.ID, "bob", false))
	require.False(t, conv.Pinned)
}

func TestListConversationsAttachesOtherProfile(t *testing.T) {
	svc, conversations, _ := newMessagingFixture()

	conversations.add("alice", "bob")

	summaries, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].Other)
	require.Equal(t, "bob", summaries[0].Other.DiscordID)
}
