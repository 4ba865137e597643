package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	AddItem,
	EditItem,
	RemoveItem,
	FindItem,
	ListingCard,
	Version,
}

var gameChoices = []discord.ApplicationCommandOptionChoiceString{
	{Name: "Murder Mystery 2", Value: "mm2"},
	{Name: "Adopt Me", Value: "adoptme"},
	{Name: "Steal a Brainrot", Value: "sab"},
	{Name: "Grow a Garden", Value: "gag"},
}
