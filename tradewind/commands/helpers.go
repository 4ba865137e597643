package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/tradewind-gg/tradewind/tradewind"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

func isAdmin(b *tradewind.Bot, userID string) bool {
	for _, admin := range b.Cfg.Web.AdminUsers {
		if admin == userID {
			return true
		}
	}
	return false
}

func sendAccessDenied(e *handler.CommandEvent) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "❌ Access Denied",
				Description: "```diff\n- This command is restricted to catalog admins\n```",
				Color:       config.ErrorColor,
			},
		},
		Flags: discord.MessageFlagEphemeral,
	})
}

func sendCommandError(e *handler.CommandEvent, title string, err error) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "❌ " + title,
				Description: fmt.Sprintf("```diff\n- Error: %v\n```", err),
				Color:       config.ErrorColor,
			},
		},
		Flags: discord.MessageFlagEphemeral,
	})
}
