package services

import (
	"context"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
)

// MessagingService gates every conversation and message operation on the
// caller being a participant, and runs outbound text through moderation.
type MessagingService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	moderation    *moderation.Service
}

func NewMessagingService(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	mod *moderation.Service,
) *MessagingService {
	return &MessagingService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		moderation:    mod,
	}
}

// StartConversation opens (or returns) the one conversation between the
// caller and another user.
func (s *MessagingService) StartConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error) {
	return s.conversations.GetOrCreate(ctx, userID, otherID)
}

// ListConversations returns the caller's threads with unread counts and
// the other participant's profile.
func (s *MessagingService) ListConversations(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	summaries, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	others := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		others = append(others, summary.Conversation.OtherParticipant(userID))
	}
	profiles, err := s.users.GetProfiles(ctx, others)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		summary.Other = profiles[summary.Conversation.OtherParticipant(userID)]
	}
	return summaries, nil
}

// GetMessages pages through a conversation's history oldest-to-newest
// within the page, newest page first. Non-participants get the same
// NotFoundError as a missing conversation.
func (s *MessagingService) GetMessages(ctx context.Context, conversationID int64, userID string, limit int, cursor *repositories.MessageCursor) ([]*models.Message, error) {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.messages.Fetch(ctx, conversationID, limit, cursor)
}

type SendMessageInput struct {
	ConversationID int64
	SenderID       string
	Content        string
	ReplyToID      *int64
}

func (s *MessagingService) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	if input.Content == "" {
		return nil, &repositories.ValidationError{Field: "content", Reason: "message cannot be empty"}
	}
	if _, err := s.authorize(ctx, input.ConversationID, input.SenderID); err != nil {
		return nil, err
	}
	if result := s.moderation.Moderate(ctx, input.Content); !result.Safe {
		return nil, &repositories.ValidationError{Field: "content", Reason: result.Reason}
	}

	message := &models.Message{
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		Content:        input.Content,
		ReplyToID:      input.ReplyToID,
	}
	if err := s.messages.Send(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// EditMessage rewrites a live message. Sender only.
func (s *MessagingService) EditMessage(ctx context.Context, id int64, userID, content string) (*models.Message, error) {
	if content == "" {
		return nil, &repositories.ValidationError{Field: "content", Reason: "message cannot be empty"}
	}

	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID {
		return nil, &repositories.ValidationError{Field: "actor", Reason: "only the sender can edit a message"}
	}
	if result := s.moderation.Moderate(ctx, content); !result.Safe {
		return nil, &repositories.ValidationError{Field: "content", Reason: result.Reason}
	}
	return s.messages.Edit(ctx, id, content)
}

// DeleteMessage tombstones a message. Sender only; repeat deletes are
// no-ops returning the tombstone.
func (s *MessagingService) DeleteMessage(ctx context.Context, id int64, userID string) (*models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID {
		return nil, &repositories.ValidationError{Field: "actor", Reason: "only the sender can delete a message"}
	}
	return s.messages.SoftDelete(ctx, id)
}

// MarkRead marks every message from the other participant as read. Safe
// to repeat.
func (s *MessagingService) MarkRead(ctx context.Context, conversationID int64, userID string) error {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.messages.MarkRead(ctx, conversationID, userID)
}

// SetReactions replaces a message's reaction map. Any participant of the
// conversation may react; last writer wins.
func (s *MessagingService) SetReactions(ctx context.Context, id int64, userID string, reactions map[string][]string) (*models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, message.ConversationID, userID); err != nil {
		return nil, err
	}
	if reactions == nil {
		reactions = map[string][]string{}
	}
	return s.messages.SetReactions(ctx, id, reactions)
}

// PinConversation toggles the pinned flag for a participant.
func (s *MessagingService) PinConversation(ctx context.Context, conversationID int64, userID string, pinned bool) error {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.conversations.SetPinned(ctx, conversationID, pinned)
}

// DeleteConversation removes the thread and its messages for both sides.
func (s *MessagingService) DeleteConversation(ctx context.Context, conversationID int64, userID string) error {
	if _, err := s.authorize(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.conversations.Delete(ctx, conversationID)
}

// authorize loads the conversation and hides it from non-participants.
func (s *MessagingService) authorize(ctx context.Context, conversationID int64, userID string) (*models.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Involves(userID) {
		return nil, &repositories.NotFoundError{Entity: "conversation", ID: conversationID}
	}
	return conv, nil
}
