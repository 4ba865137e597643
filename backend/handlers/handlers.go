package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tradewind-gg/tradewind/backend/config"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	webservices "github.com/tradewind-gg/tradewind/backend/services"
	"github.com/tradewind-gg/tradewind/backend/utils"
	"github.com/tradewind-gg/tradewind/tradewind/database"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

// WebApp carries every dependency the HTTP handlers need.
type WebApp struct {
	Config             *config.WebAppConfig
	DB                 *database.DB
	Repos              *webmodels.Repositories
	ListingService     *services.ListingService
	InteractionService *services.InteractionService
	MessagingService   *services.MessagingService
	CatalogService     *services.CatalogService
	SpacesService      *services.SpacesService
	ImageCache         *services.ImageCache
	OAuthService       *webservices.OAuthService
	SessionService     *webservices.SessionService
	Version            string
	Commit             string
}

// GetSession resolves the request's session via the session service.
func (w *WebApp) GetSession(c *fiber.Ctx) (*webmodels.UserSession, error) {
	return w.SessionService.GetSession(c.Context(), c)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// HealthCheck reports service and database health.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "ok"
		if err := webApp.DB.Ping(c.Context()); err != nil {
			dbStatus = "unreachable"
		}

		status := fiber.StatusOK
		if dbStatus != "ok" {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":   dbStatus,
			"version":  webApp.Version,
			"commit":   webApp.Commit,
			"database": dbStatus,
		})
	}
}

// currentUser pulls the authenticated session out of the context. Routes
// behind AuthRequired always have one.
func currentUser(c *fiber.Ctx) (*webmodels.UserSession, error) {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return session, nil
}
