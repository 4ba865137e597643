package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

type ConversationRepository interface {
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetByID(ctx context.Context, id int64) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error)
	SetPinned(ctx context.Context, id int64, pinned bool) error
	Delete(ctx context.Context, id int64) error
}

type conversationRepository struct {
	BaseRepository
}

func NewConversationRepository(db *bun.DB) ConversationRepository {
	return &conversationRepository{BaseRepository: NewBaseRepository(db)}
}

// GetOrCreate resolves the unique conversation for an unordered user pair,
// creating it on first contact. Participants are stored in canonical order
// and a unique index backs the pair, so concurrent first messages between
// the same two users converge on one row.
func (r *conversationRepository) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, &ValidationError{Field: "participants", Reason: "cannot start a conversation with yourself"}
	}
	a, b := models.CanonicalPair(userA, userB)

	conv := &models.Conversation{
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now(),
	}
	_, err := r.DB().NewInsert().
		Model(conv).
		On("CONFLICT (user_a_id, user_b_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("create", "conversation", nil, err)
	}

	existing := new(models.Conversation)
	err = r.DB().NewSelect().
		Model(existing).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "conversation", nil, err)
	}
	return existing, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	conv := new(models.Conversation)
	err := r.DB().NewSelect().
		Model(conv).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "conversation", id, err)
	}
	return conv, nil
}

// ListForUser returns the user's conversations with unread counts, ordered
// by last_message_at descending with never-messaged threads at the end.
func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	var convs []*models.Conversation
	err := r.DB().NewSelect().
		Model(&convs).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("list", "conversations", userID, err)
	}

	summaries := make([]*models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		unread, err := r.DB().NewSelect().
			Model((*models.Message)(nil)).
			Where("conversation_id = ? AND sender_id != ? AND read = false", conv.ID, userID).
			Count(ctx)
		if err != nil {
			return nil, r.HandleError("count", "unread messages", conv.ID, err)
		}
		summaries = append(summaries, &models.ConversationSummary{
			Conversation: conv,
			UnreadCount:  unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].Conversation.LastMessageAt, summaries[j].Conversation.LastMessageAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return summaries, nil
}

func (r *conversationRepository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	res, err := r.DB().NewUpdate().
		Model((*models.Conversation)(nil)).
		Set("pinned = ?", pinned).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "conversation", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "conversation", ID: id}
	}
	return nil
}

// Delete removes the conversation and all of its messages in one
// transaction so a partial failure cannot orphan messages.
func (r *conversationRepository) Delete(ctx context.Context, id int64) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Message)(nil)).
			Where("conversation_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*models.Conversation)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	return r.HandleError("delete", "conversation", id, err)
}
