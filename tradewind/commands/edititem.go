package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

var EditItem = discord.SlashCommandCreate{
	Name:        "edititem",
	Description: "✏️ Update a catalog item",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "id",
			Description: "Item ID",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "New item name",
			Required:    false,
		},
		discord.ApplicationCommandOptionFloat{
			Name:        "value",
			Description: "New base trading value",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "section",
			Description: "New catalog section",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "rarity",
			Description: "New rarity label",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "demand",
			Description: "New demand label",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "image_url",
			Description: "New artwork URL",
			Required:    false,
		},
	},
}

func EditItemHandler(b *tradewind.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e.User().ID.String()) {
			return sendAccessDenied(e)
		}

		data := e.SlashCommandInteractionData()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		item, err := b.CatalogService.Get(ctx, int64(data.Int("id")))
		if err != nil {
			return sendCommandError(e, "Edit Failed", err)
		}

		if name, ok := data.OptString("name"); ok {
			item.Name = name
		}
		if value, ok := data.OptFloat("value"); ok {
			item.BaseValue = value
		}
		if section, ok := data.OptString("section"); ok {
			item.Section = section
		}
		if rarity, ok := data.OptString("rarity"); ok {
			item.Rarity = rarity
		}
		if demand, ok := data.OptString("demand"); ok {
			item.Demand = demand
		}
		if imageURL, ok := data.OptString("image_url"); ok {
			item.ImageURL = imageURL
		}

		updated, err := b.CatalogService.Update(ctx, item)
		if err != nil {
			return sendCommandError(e, "Edit Failed", err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title: "✅ Item Updated",
					Description: fmt.Sprintf("```\nID:    %d\nGame:  %s\nName:  %s\nValue: %.1f\n```",
						updated.ID, updated.Game, updated.Name, updated.BaseValue),
					Color: config.SuccessColor,
				},
			},
		})
	}
}
