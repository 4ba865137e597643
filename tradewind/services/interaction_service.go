package services

import (
	"context"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
)

// InteractionService manages offers made against listings and their
// pending/accepted/declined/withdrawn lifecycle.
type InteractionService struct {
	interactions repositories.InteractionRepository
	listings     repositories.ListingRepository
	users        repositories.UserRepository
	moderation   *moderation.Service
}

func NewInteractionService(
	interactions repositories.InteractionRepository,
	listings repositories.ListingRepository,
	users repositories.UserRepository,
	mod *moderation.Service,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		listings:     listings,
		users:        users,
		moderation:   mod,
	}
}

// Create opens a pending interaction on an active listing. Owners cannot
// interact with their own listings.
func (s *InteractionService) Create(ctx context.Context, listingID int64, initiatorID, message string) (*models.TradeInteraction, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != models.ListingActive {
		return nil, &repositories.ConflictError{Entity: "listing", Reason: "listing is no longer active"}
	}
	if listing.OwnerID == initiatorID {
		return nil, &repositories.ValidationError{Field: "listing", Reason: "cannot interact with your own listing"}
	}
	if message != "" {
		if result := s.moderation.Moderate(ctx, message); !result.Safe {
			return nil, &repositories.ValidationError{Field: "message", Reason: result.Reason}
		}
	}

	interaction := &models.TradeInteraction{
		ListingID:   listingID,
		InitiatorID: initiatorID,
		Message:     message,
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, err
	}
	return s.withInitiator(ctx, interaction)
}

// ListForListing returns a listing's interactions newest first. Only the
// listing owner may see them.
func (s *InteractionService) ListForListing(ctx context.Context, listingID int64, requesterID string) ([]*models.TradeInteraction, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != requesterID {
		return nil, &repositories.NotFoundError{Entity: "listing", ID: listingID}
	}

	interactions, err := s.interactions.GetByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.attachInitiators(ctx, interactions)
}

// Accept moves a pending interaction to accepted. Owner only.
func (s *InteractionService) Accept(ctx context.Context, id int64, actorID string) (*models.TradeInteraction, error) {
	return s.transition(ctx, id, actorID, models.InteractionAccepted)
}

// Decline moves a pending interaction to declined. Owner only.
func (s *InteractionService) Decline(ctx context.Context, id int64, actorID string) (*models.TradeInteraction, error) {
	return s.transition(ctx, id, actorID, models.InteractionDeclined)
}

// Withdraw moves a pending interaction to withdrawn. Initiator only.
func (s *InteractionService) Withdraw(ctx context.Context, id int64, actorID string) (*models.TradeInteraction, error) {
	return s.transition(ctx, id, actorID, models.InteractionWithdrawn)
}

// transition authorizes the actor for the target state, then applies the
// state change guarded on the row still being pending. Terminal states
// never transition again.
func (s *InteractionService) transition(ctx context.Context, id int64, actorID string, to models.InteractionStatus) (*models.TradeInteraction, error) {
	interaction, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch to {
	case models.InteractionAccepted, models.InteractionDeclined:
		listing, err := s.listings.GetByID(ctx, interaction.ListingID)
		if err != nil {
			return nil, err
		}
		if listing.OwnerID != actorID {
			return nil, &repositories.ValidationError{Field: "actor", Reason: "only the listing owner can resolve an interaction"}
		}
	case models.InteractionWithdrawn:
		if interaction.InitiatorID != actorID {
			return nil, &repositories.ValidationError{Field: "actor", Reason: "only the initiator can withdraw an interaction"}
		}
	default:
		return nil, &repositories.ValidationError{Field: "status", Reason: "invalid transition target"}
	}

	if err := s.interactions.UpdateStatus(ctx, id, models.InteractionPending, to); err != nil {
		return nil, err
	}

	updated, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withInitiator(ctx, updated)
}

func (s *InteractionService) withInitiator(ctx context.Context, interaction *models.TradeInteraction) (*models.TradeInteraction, error) {
	profile, err := s.users.GetProfile(ctx, interaction.InitiatorID)
	if err != nil {
		return nil, err
	}
	interaction.Initiator = profile
	return interaction, nil
}

func (s *InteractionService) attachInitiators(ctx context.Context, interactions []*models.TradeInteraction) ([]*models.TradeInteraction, error) {
	if len(interactions) == 0 {
		return interactions, nil
	}
	ids := make([]string, 0, len(interactions))
	seen := make(map[string]bool, len(interactions))
	for _, interaction := range interactions {
		if !seen[interaction.InitiatorID] {
			seen[interaction.InitiatorID] = true
			ids = append(ids, interaction.InitiatorID)
		}
	}
	profiles, err := s.users.GetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, interaction := range interactions {
		interaction.Initiator = profiles[interaction.InitiatorID]
	}
	return interactions, nil
}
