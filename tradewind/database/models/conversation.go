package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Conversation is the unique thread between two users. Participants are
// stored in canonical (lexicographic) order so the unordered pair maps to
// exactly one row; a unique index on (user_a_id, user_b_id) enforces it.
type Conversation struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID            int64      `bun:"id,pk,autoincrement"`
	UserAID       string     `bun:"user_a_id,notnull"`
	UserBID       string     `bun:"user_b_id,notnull"`
	Pinned        bool       `bun:"pinned,notnull,default:false"`
	LastMessageAt *time.Time `bun:"last_message_at"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// CanonicalPair orders two participant ids the way conversations store
// them.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// Involves reports whether userID is one of the two participants.
func (c *Conversation) Involves(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// ConversationSummary is the list-view projection: the conversation, who
// the other participant is, and how many of their messages are unread.
type ConversationSummary struct {
	Conversation *Conversation `json:"conversation"`
	Other        *UserProfile  `json:"other"`
	UnreadCount  int           `json:"unread_count"`
}

// Message belongs to exactly one conversation. Deletion is a soft delete:
// content is replaced with a tombstone and DeletedAt is set, so replies
// referencing the row stay valid.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID             int64               `bun:"id,pk,autoincrement"`
	ConversationID int64               `bun:"conversation_id,notnull"`
	SenderID       string              `bun:"sender_id,notnull"`
	Content        string              `bun:"content,notnull"`
	ReplyToID      *int64              `bun:"reply_to_id"`
	Read           bool                `bun:"read,notnull,default:false"`
	Reactions      map[string][]string `bun:"reactions,type:jsonb"`
	DeletedAt      *time.Time          `bun:"deleted_at"`
	EditedAt       *time.Time          `bun:"edited_at"`
	CreatedAt      time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

// Deleted reports whether the message has been tombstoned.
func (m *Message) Deleted() bool {
	return m.DeletedAt != nil
}
