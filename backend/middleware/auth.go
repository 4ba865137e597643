package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/tradewind-gg/tradewind/backend/handlers"
	"github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/backend/utils"
)

// AuthRequired ensures the request carries a valid session and stores it
// in the request context.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}
		if session == nil || session.DiscordID == "" {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// AdminRequired ensures the authenticated user is on the admin list.
// Must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user")
		if user == nil {
			return utils.SendForbidden(c, "Access denied")
		}

		session, ok := user.(*models.UserSession)
		if !ok {
			return utils.SendForbidden(c, "Access denied")
		}
		if !session.IsAdmin {
			slog.Warn("Admin required: user lacks admin privileges",
				slog.String("discord_id", session.DiscordID),
				slog.String("username", session.Username))
			return utils.SendForbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

// OptionalAuth attaches the session when present without requiring it.
func OptionalAuth(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, err := webApp.GetSession(c); err == nil && session != nil && session.DiscordID != "" {
			c.Locals("user", session)
		}
		return c.Next()
	}
}
