package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	DiscordID string    `bun:"discord_id,notnull,unique"`
	Username  string    `bun:"username,notnull"`
	Avatar    string    `bun:"avatar"`
	Joined    time.Time `bun:"joined,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// UserProfile is the public projection embedded into listing, interaction
// and conversation responses.
type UserProfile struct {
	DiscordID string `json:"discord_id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}

// Session maps an opaque session id to a Discord identity and its OAuth
// token pair. Rows are created at login, refreshed opportunistically and
// removed at logout or when expiry is detected.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           string    `bun:"id,pk"`
	DiscordID    string    `bun:"discord_id,notnull"`
	Username     string    `bun:"username,notnull"`
	Avatar       string    `bun:"avatar"`
	AccessToken  string    `bun:"access_token,notnull"`
	RefreshToken string    `bun:"refresh_token"`
	IsAdmin      bool      `bun:"is_admin,notnull,default:false"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
