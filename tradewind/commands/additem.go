package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
)

var AddItem = discord.SlashCommandCreate{
	Name:        "additem",
	Description: "➕ Add an item to the trading catalog",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "game",
			Description: "Game the item belongs to",
			Required:    true,
			Choices:     gameChoices,
		},
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Item name",
			Required:    true,
		},
		discord.ApplicationCommandOptionFloat{
			Name:        "value",
			Description: "Base trading value",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "section",
			Description: "Catalog section (e.g. godlys, pets)",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "rarity",
			Description: "Rarity label",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "demand",
			Description: "Demand label",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "image_url",
			Description: "Artwork URL",
			Required:    false,
		},
	},
}

func AddItemHandler(b *tradewind.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e.User().ID.String()) {
			return sendAccessDenied(e)
		}

		data := e.SlashCommandInteractionData()
		item := &models.Item{
			Game:      models.Game(data.String("game")),
			Name:      data.String("name"),
			Section:   data.String("section"),
			BaseValue: data.Float("value"),
			Rarity:    data.String("rarity"),
			Demand:    data.String("demand"),
			ImageURL:  data.String("image_url"),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		created, err := b.CatalogService.Create(ctx, item)
		if err != nil {
			return sendCommandError(e, "Add Failed", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title: "✅ Item Added",
					Description: fmt.Sprintf("```\nID:    %d\nGame:  %s\nName:  %s\nValue: %.1f\n```",
						created.ID, created.Game, created.Name, created.BaseValue),
					Color: config.SuccessColor,
				},
			},
		})
	}
}
