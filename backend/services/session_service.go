package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tradewind-gg/tradewind/backend/config"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

const (
	SessionCookieName = "tradewind_session"
	StateCookieName   = "oauth_state"

	sessionLifetime = 24 * time.Hour
)

// SessionService persists sessions in the database and hands the browser
// an HMAC-signed cookie carrying only the opaque session id.
type SessionService struct {
	config   *config.WebAppConfig
	sessions repositories.SessionRepository
}

func NewSessionService(cfg *config.WebAppConfig, sessions repositories.SessionRepository) *SessionService {
	return &SessionService{
		config:   cfg,
		sessions: sessions,
	}
}

// CreateSession stores a new session row and sets the signed cookie.
func (s *SessionService) CreateSession(ctx context.Context, c *fiber.Ctx, user *webmodels.UserSession, accessToken, refreshToken string) error {
	id, err := newSessionID()
	if err != nil {
		return err
	}

	session := &models.Session{
		ID:           id,
		DiscordID:    user.DiscordID,
		Username:     user.Username,
		Avatar:       user.Avatar,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IsAdmin:      user.IsAdmin,
		ExpiresAt:    time.Now().Add(sessionLifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	signed, err := s.signData([]byte(id))
	if err != nil {
		return fmt.Errorf("failed to sign session id: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionLifetime / time.Second),
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session created for user",
		slog.String("type", "http"),
		slog.String("user_id", user.DiscordID),
		slog.String("username", user.Username),
		slog.Bool("is_admin", user.IsAdmin))
	return nil
}

// GetSession validates the cookie signature and loads the session row.
func (s *SessionService) GetSession(ctx context.Context, c *fiber.Ctx) (*webmodels.UserSession, error) {
	cookie := c.Cookies(SessionCookieName)
	if cookie == "" {
		return nil, fmt.Errorf("no session cookie found")
	}

	idBytes, err := s.verifyAndDecodeData(cookie)
	if err != nil {
		return nil, fmt.Errorf("invalid session signature: %w", err)
	}

	session, err := s.sessions.Get(ctx, string(idBytes))
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return &webmodels.UserSession{
		SessionID: session.ID,
		DiscordID: session.DiscordID,
		Username:  session.Username,
		Avatar:    session.Avatar,
		IsAdmin:   session.IsAdmin,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// DestroySession drops the database row and clears the cookie.
func (s *SessionService) DestroySession(ctx context.Context, c *fiber.Ctx) {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		if idBytes, err := s.verifyAndDecodeData(cookie); err == nil {
			if err := s.sessions.Delete(ctx, string(idBytes)); err != nil {
				slog.Warn("Failed to delete session row",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// SetState stores the OAuth state parameter in a signed short-lived
// cookie.
func (s *SessionService) SetState(c *fiber.Ctx, state string) error {
	signed, err := s.signData([]byte(state))
	if err != nil {
		return fmt.Errorf("failed to sign state: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

// GetAndClearState retrieves and clears the OAuth state parameter.
func (s *SessionService) GetAndClearState(c *fiber.Ctx) (string, error) {
	cookie := c.Cookies(StateCookieName)
	if cookie == "" {
		return "", fmt.Errorf("no state cookie found")
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.config.Environment == "production",
		HTTPOnly: true,
		SameSite: "Lax",
	})

	stateData, err := s.verifyAndDecodeData(cookie)
	if err != nil {
		return "", fmt.Errorf("invalid state signature: %w", err)
	}
	return string(stateData), nil
}

// SweepExpired removes expired session rows.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// signData signs data using HMAC-SHA256.
func (s *SessionService) signData(data []byte) (string, error) {
	key := s.config.Config.Web.SessionKey
	if key == "" {
		return "", fmt.Errorf("session key not configured")
	}

	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	signature := h.Sum(nil)

	combined := append(data, signature...)
	return base64.URLEncoding.EncodeToString(combined), nil
}

// verifyAndDecodeData verifies the signature and returns the original
// data.
func (s *SessionService) verifyAndDecodeData(encodedData string) ([]byte, error) {
	key := s.config.Config.Web.SessionKey
	if key == "" {
		return nil, fmt.Errorf("session key not configured")
	}

	combined, err := base64.URLEncoding.DecodeString(encodedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	if len(combined) < sha256.Size {
		return nil, fmt.Errorf("invalid data length")
	}

	data := combined[:len(combined)-sha256.Size]
	receivedSignature := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	expectedSignature := h.Sum(nil)

	if !hmac.Equal(receivedSignature, expectedSignature) {
		return nil, fmt.Errorf("signature verification failed")
	}
	return data, nil
}
