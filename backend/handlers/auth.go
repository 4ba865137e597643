package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	webservices "github.com/tradewind-gg/tradewind/backend/services"
	"github.com/tradewind-gg/tradewind/backend/utils"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
)

// DiscordOAuth starts the OAuth2 code flow by redirecting to Discord.
func DiscordOAuth(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := webApp.OAuthService.GenerateState()
		if err != nil {
			return utils.SendInternalServerError(c, "failed to start login")
		}
		if err := webApp.SessionService.SetState(c, state); err != nil {
			return utils.SendInternalServerError(c, "failed to start login")
		}
		return c.Redirect(webApp.OAuthService.GenerateAuthURL(state))
	}
}

// OAuthCallback completes the code flow: verifies state, exchanges the
// code, upserts the user, and issues a session.
func OAuthCallback(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expectedState, err := webApp.SessionService.GetAndClearState(c)
		if err != nil {
			return utils.SendBadRequest(c, "missing or invalid oauth state", nil)
		}
		if state := c.Query("state"); state == "" || state != expectedState {
			slog.Warn("OAuth state mismatch",
				slog.String("type", "http"),
				slog.String("ip", utils.GetIPAddress(c)))
			return utils.SendBadRequest(c, "oauth state mismatch", nil)
		}

		code := c.Query("code")
		if code == "" {
			return utils.SendBadRequest(c, "missing authorization code", nil)
		}

		ctx := c.Context()
		token, err := webApp.OAuthService.ExchangeCodeForToken(ctx, code)
		if err != nil {
			slog.Error("Token exchange failed",
				slog.String("type", "http"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "login failed")
		}

		discordUser, err := webApp.OAuthService.GetUserInfo(ctx, token.AccessToken)
		if err != nil {
			slog.Error("User info fetch failed",
				slog.String("type", "http"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "login failed")
		}

		avatar := webservices.AvatarURL(discordUser.ID, discordUser.Avatar)
		if err := webApp.Repos.User.Upsert(ctx, &models.User{
			DiscordID: discordUser.ID,
			Username:  discordUser.Username,
			Avatar:    avatar,
		}); err != nil {
			slog.Error("User upsert failed",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "login failed")
		}

		userSession := &webmodels.UserSession{
			DiscordID: discordUser.ID,
			Username:  discordUser.Username,
			Avatar:    avatar,
			IsAdmin:   webApp.Config.IsAdminUser(discordUser.ID),
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}
		if err := webApp.SessionService.CreateSession(ctx, c, userSession, token.AccessToken, token.RefreshToken); err != nil {
			slog.Error("Session creation failed",
				slog.String("type", "http"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "login failed")
		}

		return c.Redirect("/")
	}
}

// Logout destroys the current session.
func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.SessionService.DestroySession(c.Context(), c)
		return utils.SendSuccess(c, nil, "logged out")
	}
}

// ValidateSession returns the caller's identity, for frontend bootstrap.
func ValidateSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			return utils.SendUnauthorized(c, "not logged in")
		}
		return utils.SendSuccess(c, session, "")
	}
}
