package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

// MessageCursor is the composite pagination cursor. Timestamps alone can
// tie under concurrent sends; the id tie-break guarantees no message is
// skipped or duplicated across pages.
type MessageCursor struct {
	Before   time.Time
	BeforeID int64
}

type MessageRepository interface {
	Send(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	Fetch(ctx context.Context, conversationID int64, limit int, cursor *MessageCursor) ([]*models.Message, error)
	Edit(ctx context.Context, id int64, content string) (*models.Message, error)
	SoftDelete(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, conversationID int64, readerID string) error
	SetReactions(ctx context.Context, id int64, reactions map[string][]string) (*models.Message, error)
}

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(db *bun.DB) MessageRepository {
	return &messageRepository{BaseRepository: NewBaseRepository(db)}
}

// Send inserts the message and advances the conversation's denormalized
// last_message_at in the same transaction; a message must never exist
// without its conversation timestamp at least reaching it.
func (r *messageRepository) Send(ctx context.Context, message *models.Message) error {
	message.CreatedAt = time.Now()
	message.Read = false

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if message.ReplyToID != nil {
			// A reply target must live in the same conversation.
			exists, err := tx.NewSelect().
				Model((*models.Message)(nil)).
				Where("id = ? AND conversation_id = ?", *message.ReplyToID, message.ConversationID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return &ValidationError{Field: "reply_to", Reason: "target message is not in this conversation"}
			}
		}

		if _, err := tx.NewInsert().Model(message).Exec(ctx); err != nil {
			return err
		}

		_, err := bumpConversation(tx, message.ConversationID, message.CreatedAt).Exec(ctx)
		return err
	})
	if err != nil {
		if IsValidation(err) {
			return err
		}
		return r.HandleError("send", "message", nil, err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	message := new(models.Message)
	err := r.DB().NewSelect().
		Model(message).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "message", id, err)
	}
	return message, nil
}

// Fetch returns up to limit messages strictly older than the cursor (or
// the newest messages when the cursor is nil). The query runs descending
// and the result is reversed, so the caller always receives ascending
// order for both initial load and load-older pagination.
func (r *messageRepository) Fetch(ctx context.Context, conversationID int64, limit int, cursor *MessageCursor) ([]*models.Message, error) {
	if limit <= 0 {
		limit = config.DefaultMessageLimit
	}
	if limit > config.MaxMessageLimit {
		limit = config.MaxMessageLimit
	}

	var messages []*models.Message
	err := r.fetchQuery(&messages, conversationID, limit, cursor).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("fetch", "messages", conversationID, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// fetchQuery builds the descending page read. The destination slice is
// bound up front; bun rejects queries whose model is set after the fact.
// The id tie-break in both the row comparison and the ordering keeps
// pages gap-free when timestamps collide.
func (r *messageRepository) fetchQuery(messages *[]*models.Message, conversationID int64, limit int, cursor *MessageCursor) *bun.SelectQuery {
	q := r.DB().NewSelect().
		Model(messages).
		Where("conversation_id = ?", conversationID)
	if cursor != nil {
		if cursor.BeforeID > 0 {
			q = q.Where("(created_at, id) < (?, ?)", cursor.Before, cursor.BeforeID)
		} else {
			q = q.Where("created_at < ?", cursor.Before)
		}
	}
	return q.Order("created_at DESC", "id DESC").Limit(limit)
}

// bumpConversation advances the denormalized last_message_at, never
// moving it backwards.
func bumpConversation(idb bun.IDB, conversationID int64, at time.Time) *bun.UpdateQuery {
	return idb.NewUpdate().
		Model((*models.Conversation)(nil)).
		Set("last_message_at = GREATEST(COALESCE(last_message_at, 'epoch'::timestamptz), ?)", at).
		Where("id = ?", conversationID)
}

// Edit replaces the content of a live message and stamps edited_at.
// Tombstoned messages cannot be edited.
func (r *messageRepository) Edit(ctx context.Context, id int64, content string) (*models.Message, error) {
	res, err := r.DB().NewUpdate().
		Model((*models.Message)(nil)).
		Set("content = ?", content).
		Set("edited_at = ?", time.Now()).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("edit", "message", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, &NotFoundError{Entity: "message", ID: id}
	}
	return r.GetByID(ctx, id)
}

// SoftDelete tombstones the message: the row survives for thread
// integrity, the content does not.
func (r *messageRepository) SoftDelete(ctx context.Context, id int64) (*models.Message, error) {
	res, err := r.DB().NewUpdate().
		Model((*models.Message)(nil)).
		Set("content = ?", config.MessageTombstone).
		Set("deleted_at = ?", time.Now()).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("delete", "message", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Either missing or already tombstoned; both read the same.
		return r.GetByID(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// MarkRead flags every message in the conversation not sent by readerID
// as read. Safe to repeat.
func (r *messageRepository) MarkRead(ctx context.Context, conversationID int64, readerID string) error {
	_, err := r.DB().NewUpdate().
		Model((*models.Message)(nil)).
		Set("read = true").
		Where("conversation_id = ? AND sender_id != ? AND read = false", conversationID, readerID).
		Exec(ctx)
	return r.HandleError("mark read", "messages", conversationID, err)
}

// SetReactions replaces the reaction map wholesale. Last writer wins;
// concurrent reactors racing this call may lose updates, which is the
// documented contract.
func (r *messageRepository) SetReactions(ctx context.Context, id int64, reactions map[string][]string) (*models.Message, error) {
	res, err := r.DB().NewUpdate().
		Model((*models.Message)(nil)).
		Set("reactions = ?", reactions).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("react", "message", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, &NotFoundError{Entity: "message", ID: id}
	}
	return r.GetByID(ctx, id)
}
