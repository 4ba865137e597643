package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

var RemoveItem = discord.SlashCommandCreate{
	Name:        "removeitem",
	Description: "🗑️ Remove an item from the trading catalog",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "id",
			Description: "Item ID",
			Required:    true,
		},
	},
}

func RemoveItemHandler(b *tradewind.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e.User().ID.String()) {
			return sendAccessDenied(e)
		}

		id := int64(e.SlashCommandInteractionData().Int("id"))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := b.CatalogService.Delete(ctx, id); err != nil {
			if repositories.IsConflict(err) {
				return e.CreateMessage(discord.MessageCreate{
					Embeds: []discord.Embed{
						{
							Title:       "⚠️ Item In Use",
							Description: "```diff\n- This item is still part of an active listing\n```",
							Color:       config.WarningColor,
						},
					},
					Flags: discord.MessageFlagEphemeral,
				})
			}
			return sendCommandError(e, "Remove Failed", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title:       "✅ Item Removed",
					Description: fmt.Sprintf("```\nItem %d removed from the catalog\n```", id),
					Color:       config.SuccessColor,
				},
			},
		})
	}
}
