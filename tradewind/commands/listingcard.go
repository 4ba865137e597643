package commands

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

var ListingCard = discord.SlashCommandCreate{
	Name:        "listingcard",
	Description: "🖼️ Render a trade listing as a shareable image",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "id",
			Description: "Listing ID",
			Required:    true,
		},
	},
}

func ListingCardHandler(b *tradewind.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return fmt.Errorf("failed to defer response: %w", err)
		}

		id := int64(e.SlashCommandInteractionData().Int("id"))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		listing, err := b.ListingService.Get(ctx, id)
		if err != nil {
			return updateWithError(e, "Listing Not Found", err)
		}

		offering, err := b.ItemRepository.GetByIDs(ctx, listing.Offering)
		if err != nil {
			return updateWithError(e, "Render Failed", err)
		}
		requesting, err := b.ItemRepository.GetByIDs(ctx, listing.Requesting)
		if err != nil {
			return updateWithError(e, "Render Failed", err)
		}

		imageBytes, err := b.PreviewService.GenerateListingCard(ctx, listing, offering, requesting)
		if err != nil {
			return updateWithError(e, "Render Failed", err)
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Files: []*discord.File{
				discord.NewFile(fmt.Sprintf("listing_%d.png", id), "", bytes.NewReader(imageBytes)),
			},
		})
		return err
	}
}

func updateWithError(e *handler.CommandEvent, title string, err error) error {
	_, updateErr := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{
			{
				Title:       "❌ " + title,
				Description: fmt.Sprintf("```diff\n- Error: %v\n```", err),
				Color:       config.ErrorColor,
			},
		},
	})
	return updateErr
}
