package commands

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
)

var FindItem = discord.SlashCommandCreate{
	Name:        "finditem",
	Description: "🔍 Search the trading catalog",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Item name to search for",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "game",
			Description: "Restrict search to one game",
			Required:    false,
			Choices:     gameChoices,
		},
	},
}

func FindItemHandler(b *tradewind.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		query := data.String("query")

		var game *models.Game
		if raw, ok := data.OptString("game"); ok {
			g := models.Game(raw)
			game = &g
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.SearchTimeout)
		defer cancel()

		items, err := b.CatalogService.Search(ctx, query, game)
		if err != nil {
			return sendCommandError(e, "Search Failed", err)
		}

		if len(items) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{
					{
						Title:       "❌ No Results Found",
						Description: "```diff\n- No catalog items match your query\n```",
						Color:       config.ErrorColor,
						Footer: &discord.EmbedFooter{
							Text: "Try a shorter or different search term",
						},
					},
				},
			})
		}

		totalPages := int(math.Ceil(float64(len(items)) / float64(config.ItemsPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * config.ItemsPerPage
				endIdx := min(startIdx+config.ItemsPerPage, len(items))
				pageItems := items[startIdx:endIdx]

				var description strings.Builder
				description.WriteString("```ansi\n")
				description.WriteString(fmt.Sprintf("Query: \x1b[33m%s\x1b[0m\n\n", query))

				for _, item := range pageItems {
					labels := ""
					if item.Rarity != "" {
						labels = fmt.Sprintf(" [%s]", item.Rarity)
					}
					description.WriteString(fmt.Sprintf("#%d \x1b[32m%s\x1b[0m (%s)%s %.1f\n",
						item.ID, item.Name, strings.ToUpper(string(item.Game)), labels, item.BaseValue))
				}
				description.WriteString("```")

				embed.
					SetTitle("Catalog Search").
					SetDescription(description.String()).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d items", page+1, totalPages, len(items)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
