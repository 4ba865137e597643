package handlers

import (
	"github.com/gofiber/fiber/v2"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/backend/utils"
)

// InteractionsCreate opens a pending interaction on a listing.
func InteractionsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		listingID, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid listing id", nil)
		}

		var req webmodels.CreateInteractionRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		interaction, err := webApp.InteractionService.Create(c.Context(), listingID, user.DiscordID, req.Message)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendCreated(c, interaction, "interaction created")
	}
}

// InteractionsForListing lists a listing's interactions for its owner.
func InteractionsForListing(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		listingID, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid listing id", nil)
		}

		interactions, err := webApp.InteractionService.ListForListing(c.Context(), listingID, user.DiscordID)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, interactions, "")
	}
}

// InteractionsAccept resolves a pending interaction as accepted.
func InteractionsAccept(webApp *WebApp) fiber.Handler {
	return interactionTransition(webApp, "accept")
}

// InteractionsDecline resolves a pending interaction as declined.
func InteractionsDecline(webApp *WebApp) fiber.Handler {
	return interactionTransition(webApp, "decline")
}

// InteractionsWithdraw withdraws the caller's own pending interaction.
func InteractionsWithdraw(webApp *WebApp) fiber.Handler {
	return interactionTransition(webApp, "withdraw")
}

func interactionTransition(webApp *WebApp, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid interaction id", nil)
		}

		ctx := c.Context()
		var interaction interface{}
		switch action {
		case "accept":
			interaction, err = webApp.InteractionService.Accept(ctx, id, user.DiscordID)
		case "decline":
			interaction, err = webApp.InteractionService.Decline(ctx, id, user.DiscordID)
		case "withdraw":
			interaction, err = webApp.InteractionService.Withdraw(ctx, id, user.DiscordID)
		}
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, interaction, "interaction updated")
	}
}
