package models

import (
	"time"
)

// UserSession is the authenticated identity attached to a request. The
// cookie carries only the opaque session id; the rest is loaded from the
// sessions table.
type UserSession struct {
	SessionID string    `json:"session_id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateListingRequest is the POST /api/listings payload.
type CreateListingRequest struct {
	Game       string  `json:"game"`
	Offering   []int64 `json:"offering"`
	Requesting []int64 `json:"requesting"`
	Notes      string  `json:"notes"`
}

// UpdateListingRequest is a partial update; absent fields stay unchanged.
type UpdateListingRequest struct {
	Offering   []int64 `json:"offering"`
	Requesting []int64 `json:"requesting"`
	Notes      *string `json:"notes"`
	Status     *string `json:"status"`
}

// CreateInteractionRequest opens an offer against a listing.
type CreateInteractionRequest struct {
	Message string `json:"message"`
}

// StartConversationRequest opens (or returns) a thread with another user.
type StartConversationRequest struct {
	OtherID string `json:"other_id"`
}

// SendMessageRequest is the POST message payload.
type SendMessageRequest struct {
	Content   string `json:"content"`
	ReplyToID *int64 `json:"reply_to_id"`
}

// EditMessageRequest replaces message content.
type EditMessageRequest struct {
	Content string `json:"content"`
}

// ReactionsRequest replaces a message's full reaction map.
type ReactionsRequest struct {
	Reactions map[string][]string `json:"reactions"`
}

// PinRequest toggles the pinned flag on a conversation.
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// ItemRequest is the admin catalog create/update payload.
type ItemRequest struct {
	Game      string             `json:"game"`
	Name      string             `json:"name"`
	Section   string             `json:"section"`
	BaseValue float64            `json:"base_value"`
	Variants  map[string]float64 `json:"variants"`
	ImageURL  string             `json:"image_url"`
	Rarity    string             `json:"rarity"`
	Demand    string             `json:"demand"`
}
