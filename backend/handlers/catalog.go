package handlers

import (
	"github.com/gofiber/fiber/v2"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/backend/utils"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
)

// CatalogIndex lists catalog items, optionally filtered by game or
// fuzzy-matched against a search query.
func CatalogIndex(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var game *models.Game
		if raw := c.Query("game"); raw != "" {
			g := models.Game(raw)
			game = &g
		}

		ctx := c.Context()
		if query := c.Query("q"); query != "" {
			items, err := webApp.CatalogService.Search(ctx, query, game)
			if err != nil {
				return utils.HandleRepositoryError(c, err)
			}
			return utils.SendSuccess(c, items, "")
		}

		items, err := webApp.CatalogService.List(ctx, game)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, items, "")
	}
}

// CatalogDetail returns one item.
func CatalogDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid item id", nil)
		}

		item, err := webApp.CatalogService.Get(c.Context(), id)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, item, "")
	}
}

// CatalogCreate adds an item. Admin only.
func CatalogCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.ItemRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		item, err := webApp.CatalogService.Create(c.Context(), itemFromRequest(&req))
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendCreated(c, item, "item created")
	}
}

// CatalogUpdate replaces an item's fields. Admin only.
func CatalogUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid item id", nil)
		}

		var req webmodels.ItemRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		item := itemFromRequest(&req)
		item.ID = id

		updated, err := webApp.CatalogService.Update(c.Context(), item)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, updated, "item updated")
	}
}

// CatalogDelete removes an item unless an active listing references it.
// Admin only.
func CatalogDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid item id", nil)
		}

		if err := webApp.CatalogService.Delete(c.Context(), id); err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

func itemFromRequest(req *webmodels.ItemRequest) *models.Item {
	return &models.Item{
		Game:      models.Game(req.Game),
		Name:      req.Name,
		Section:   req.Section,
		BaseValue: req.BaseValue,
		Variants:  req.Variants,
		ImageURL:  req.ImageURL,
		Rarity:    req.Rarity,
		Demand:    req.Demand,
	}
}
