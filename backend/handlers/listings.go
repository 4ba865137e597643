package handlers

import (
	"github.com/gofiber/fiber/v2"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/backend/utils"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

// ListingsIndex returns active listings, optionally filtered by game.
func ListingsIndex(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var game *models.Game
		if raw := c.Query("game"); raw != "" {
			g := models.Game(raw)
			game = &g
		}

		listings, err := webApp.ListingService.ListActive(c.Context(), game)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, listings, "")
	}
}

// ListingsDetail returns a single listing with its owner profile.
func ListingsDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid listing id", nil)
		}

		listing, err := webApp.ListingService.Get(c.Context(), id)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, listing, "")
	}
}

// ListingsMine returns all of the caller's listings regardless of status.
func ListingsMine(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		listings, err := webApp.ListingService.ListByOwner(c.Context(), user.DiscordID)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, listings, "")
	}
}

// ListingsCreate creates a listing, subject to the active cap.
func ListingsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req webmodels.CreateListingRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		listing, err := webApp.ListingService.Create(c.Context(), services.CreateListingInput{
			OwnerID:    user.DiscordID,
			Game:       models.Game(req.Game),
			Offering:   req.Offering,
			Requesting: req.Requesting,
			Notes:      req.Notes,
		})
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendCreated(c, listing, "listing created")
	}
}

// ListingsUpdate applies a partial update to the caller's listing.
func ListingsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid listing id", nil)
		}

		var req webmodels.UpdateListingRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		input := services.UpdateListingInput{
			Offering:   req.Offering,
			Requesting: req.Requesting,
			Notes:      req.Notes,
		}
		if req.Status != nil {
			status := models.ListingStatus(*req.Status)
			input.Status = &status
		}

		listing, err := webApp.ListingService.Update(c.Context(), user.DiscordID, id, input)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, listing, "listing updated")
	}
}

// ListingsDelete removes the caller's listing and its interactions.
func ListingsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid listing id", nil)
		}

		if err := webApp.ListingService.Delete(c.Context(), user.DiscordID, id); err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
