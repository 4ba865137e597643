package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingCompleted ListingStatus = "completed"
	ListingCancelled ListingStatus = "cancelled"
)

// TradeListing is one user's standing offer: the items they put up and the
// items they want back, scoped to a single game.
type TradeListing struct {
	bun.BaseModel `bun:"table:trade_listings,alias:tl"`

	ID         int64         `bun:"id,pk,autoincrement"`
	OwnerID    string        `bun:"owner_id,notnull"`
	Game       Game          `bun:"game,notnull"`
	Offering   []int64       `bun:"offering,type:jsonb,notnull"`
	Requesting []int64       `bun:"requesting,type:jsonb,notnull"`
	Notes      string        `bun:"notes"`
	Status     ListingStatus `bun:"status,notnull"`
	CreatedAt  time.Time     `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time     `bun:"updated_at,notnull,default:current_timestamp"`

	// Populated on read for display; never written through this model.
	Owner *UserProfile `bun:"-"`
}

type InteractionStatus string

const (
	InteractionPending   InteractionStatus = "pending"
	InteractionAccepted  InteractionStatus = "accepted"
	InteractionDeclined  InteractionStatus = "declined"
	InteractionWithdrawn InteractionStatus = "withdrawn"
)

// IsTerminal reports whether no further transition is allowed.
func (s InteractionStatus) IsTerminal() bool {
	return s != InteractionPending
}

// TradeInteraction is a proposal raised against a listing. It has its own
// lifecycle and does not mutate the listing it targets.
type TradeInteraction struct {
	bun.BaseModel `bun:"table:trade_interactions,alias:ti"`

	ID          int64             `bun:"id,pk,autoincrement"`
	ListingID   int64             `bun:"listing_id,notnull"`
	InitiatorID string            `bun:"initiator_id,notnull"`
	Message     string            `bun:"message"`
	Status      InteractionStatus `bun:"status,notnull"`
	CreatedAt   time.Time         `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time         `bun:"updated_at,notnull,default:current_timestamp"`

	Initiator *UserProfile `bun:"-"`
}
