package models

import (
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

// Repositories bundles every repository the web handlers need.
type Repositories struct {
	User         repositories.UserRepository
	Item         repositories.ItemRepository
	Listing      repositories.ListingRepository
	Interaction  repositories.InteractionRepository
	Conversation repositories.ConversationRepository
	Message      repositories.MessageRepository
	Session      repositories.SessionRepository
}

func NewRepositories(
	user repositories.UserRepository,
	item repositories.ItemRepository,
	listing repositories.ListingRepository,
	interaction repositories.InteractionRepository,
	conversation repositories.ConversationRepository,
	message repositories.MessageRepository,
	session repositories.SessionRepository,
) *Repositories {
	return &Repositories{
		User:         user,
		Item:         item,
		Listing:      listing,
		Interaction:  interaction,
		Conversation: conversation,
		Message:      message,
		Session:      session,
	}
}
