package handlers

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/tradewind-gg/tradewind/backend/utils"
	tradewindconfig "github.com/tradewind-gg/tradewind/tradewind/config"
)

// ItemImage proxies item artwork out of Spaces through an in-memory
// cache, so the bucket stays private and hot images are served from RAM.
func ItemImage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.SpacesService == nil {
			return utils.SendNotFound(c, "image storage not configured")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid item id", nil)
		}

		item, err := webApp.CatalogService.Get(c.Context(), id)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}

		cacheKey := fmt.Sprintf("%s/%d", item.Game, item.ID)
		if data, ok := webApp.ImageCache.Get(cacheKey); ok {
			c.Set("Content-Type", "image/png")
			c.Set("Cache-Control", "public, max-age=86400")
			return c.Send(data)
		}

		data, err := webApp.SpacesService.FetchItemImage(c.Context(), string(item.Game), item.ID)
		if err != nil {
			slog.Warn("Item image fetch failed",
				slog.String("type", "http"),
				slog.Int64("item_id", item.ID),
				slog.Any("error", err))
			return utils.SendNotFound(c, "image not found")
		}
		webApp.ImageCache.Set(cacheKey, data)

		c.Set("Content-Type", "image/png")
		c.Set("Cache-Control", "public, max-age=86400")
		return c.Send(data)
	}
}

// ItemImageUpload stores new artwork for an item. Admin only.
func ItemImageUpload(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.SpacesService == nil {
			return utils.SendNotFound(c, "image storage not configured")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid item id", nil)
		}

		file, err := c.FormFile("image")
		if err != nil {
			return utils.SendBadRequest(c, "image file is required", nil)
		}
		if file.Size > tradewindconfig.MaxImageSize {
			return utils.SendBadRequest(c,
				fmt.Sprintf("image exceeds the %dMB limit", tradewindconfig.MaxImageSize/(1024*1024)), nil)
		}

		src, err := file.Open()
		if err != nil {
			return utils.SendBadRequest(c, "could not read image file", nil)
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return utils.SendInternalServerError(c, "could not read image file")
		}

		item, err := webApp.CatalogService.Get(c.Context(), id)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}

		url, err := webApp.SpacesService.UploadItemImage(c.Context(), string(item.Game), item.ID, data)
		if err != nil {
			slog.Error("Item image upload failed",
				slog.String("type", "http"),
				slog.Int64("item_id", item.ID),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "image upload failed")
		}

		item.ImageURL = url
		if _, err := webApp.CatalogService.Update(c.Context(), item); err != nil {
			return utils.HandleRepositoryError(c, err)
		}

		webApp.ImageCache.Invalidate(fmt.Sprintf("%s/%d", item.Game, item.ID))
		return utils.SendSuccess(c, fiber.Map{"image_url": url}, "image uploaded")
	}
}
