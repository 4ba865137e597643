package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/tradewind-gg/tradewind/backend/models"
	"github.com/tradewind-gg/tradewind/backend/utils"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/services"
)

// ConversationsIndex lists the caller's conversations with unread counts.
func ConversationsIndex(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		summaries, err := webApp.MessagingService.ListConversations(c.Context(), user.DiscordID)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, summaries, "")
	}
}

// ConversationsCreate opens (or returns) the thread with another user.
func ConversationsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req webmodels.StartConversationRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}
		if req.OtherID == "" {
			return utils.SendBadRequest(c, "other_id is required", nil)
		}

		conv, err := webApp.MessagingService.StartConversation(c.Context(), user.DiscordID, req.OtherID)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendCreated(c, conv, "conversation ready")
	}
}

// ConversationsPin toggles the pinned flag.
func ConversationsPin(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid conversation id", nil)
		}

		var req webmodels.PinRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		if err := webApp.MessagingService.PinConversation(c.Context(), id, user.DiscordID, req.Pinned); err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, nil, "conversation updated")
	}
}

// ConversationsDelete removes the thread and its messages.
func ConversationsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid conversation id", nil)
		}

		if err := webApp.MessagingService.DeleteConversation(c.Context(), id, user.DiscordID); err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// MessagesIndex pages through a conversation's history. Cursor format:
// ?before=<RFC3339Nano>&before_id=<id>&limit=<n>.
func MessagesIndex(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid conversation id", nil)
		}

		var cursor *repositories.MessageCursor
		if before := c.Query("before"); before != "" {
			ts, err := time.Parse(time.RFC3339Nano, before)
			if err != nil {
				return utils.SendBadRequest(c, "invalid before cursor", nil)
			}
			cursor = &repositories.MessageCursor{Before: ts}
			if beforeID := c.Query("before_id"); beforeID != "" {
				id, err := parseInt64(beforeID)
				if err != nil {
					return utils.SendBadRequest(c, "invalid before_id cursor", nil)
				}
				cursor.BeforeID = id
			}
		}

		messages, err := webApp.MessagingService.GetMessages(c.Context(), id, user.DiscordID, c.QueryInt("limit"), cursor)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, messages, "")
	}
}

// MessagesCreate sends a message into the conversation.
func MessagesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid conversation id", nil)
		}

		var req webmodels.SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		message, err := webApp.MessagingService.SendMessage(c.Context(), services.SendMessageInput{
			ConversationID: id,
			SenderID:       user.DiscordID,
			Content:        req.Content,
			ReplyToID:      req.ReplyToID,
		})
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendCreated(c, message, "message sent")
	}
}

// MessagesMarkRead marks the other side's messages read. Idempotent.
func MessagesMarkRead(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid conversation id", nil)
		}

		if err := webApp.MessagingService.MarkRead(c.Context(), id, user.DiscordID); err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, nil, "marked read")
	}
}

// MessagesEdit rewrites a live message's content. Sender only.
func MessagesEdit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid message id", nil)
		}

		var req webmodels.EditMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		message, err := webApp.MessagingService.EditMessage(c.Context(), id, user.DiscordID, req.Content)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, message, "message updated")
	}
}

// MessagesDelete tombstones a message. Sender only.
func MessagesDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid message id", nil)
		}

		message, err := webApp.MessagingService.DeleteMessage(c.Context(), id, user.DiscordID)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, message, "message deleted")
	}
}

// MessagesReactions replaces a message's reaction map wholesale.
func MessagesReactions(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		id, err := parseInt64(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "invalid message id", nil)
		}

		var req webmodels.ReactionsRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body", nil)
		}

		message, err := webApp.MessagingService.SetReactions(c.Context(), id, user.DiscordID, req.Reactions)
		if err != nil {
			return utils.HandleRepositoryError(c, err)
		}
		return utils.SendSuccess(c, message, "reactions updated")
	}
}
