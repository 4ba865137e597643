package services

import (
	"context"
	"fmt"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
)

// ListingService wraps the listing repository with input validation,
// moderation of free-text notes, and owner profile resolution.
type ListingService struct {
	listings   repositories.ListingRepository
	items      repositories.ItemRepository
	users      repositories.UserRepository
	moderation *moderation.Service
}

func NewListingService(
	listings repositories.ListingRepository,
	items repositories.ItemRepository,
	users repositories.UserRepository,
	mod *moderation.Service,
) *ListingService {
	return &ListingService{
		listings:   listings,
		items:      items,
		users:      users,
		moderation: mod,
	}
}

type CreateListingInput struct {
	OwnerID    string
	Game       models.Game
	Offering   []int64
	Requesting []int64
	Notes      string
}

func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*models.TradeListing, error) {
	if !models.IsValidGame(input.Game) {
		return nil, &repositories.ValidationError{Field: "game", Reason: fmt.Sprintf("unsupported game %q", input.Game)}
	}
	if len(input.Offering) == 0 {
		return nil, &repositories.ValidationError{Field: "offering", Reason: "must include at least one item"}
	}
	if len(input.Requesting) == 0 {
		return nil, &repositories.ValidationError{Field: "requesting", Reason: "must include at least one item"}
	}

	if err := s.validateItems(ctx, input.Game, append(append([]int64{}, input.Offering...), input.Requesting...)); err != nil {
		return nil, err
	}

	if input.Notes != "" {
		if result := s.moderation.Moderate(ctx, input.Notes); !result.Safe {
			return nil, &repositories.ValidationError{Field: "notes", Reason: result.Reason}
		}
	}

	listing := &models.TradeListing{
		OwnerID:    input.OwnerID,
		Game:       input.Game,
		Offering:   input.Offering,
		Requesting: input.Requesting,
		Notes:      input.Notes,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return s.withOwner(ctx, listing)
}

// ListActive returns active listings with owner profiles attached, newest
// first. Reading through here is enough to observe listing expiry.
func (s *ListingService) ListActive(ctx context.Context, game *models.Game) ([]*models.TradeListing, error) {
	if game != nil && !models.IsValidGame(*game) {
		return nil, &repositories.ValidationError{Field: "game", Reason: fmt.Sprintf("unsupported game %q", *game)}
	}
	listings, err := s.listings.GetActive(ctx, game)
	if err != nil {
		return nil, err
	}
	return s.attachOwners(ctx, listings)
}

func (s *ListingService) Get(ctx context.Context, id int64) (*models.TradeListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, listing)
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]*models.TradeListing, error) {
	listings, err := s.listings.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.attachOwners(ctx, listings)
}

type UpdateListingInput struct {
	Offering   []int64
	Requesting []int64
	Notes      *string
	Status     *models.ListingStatus
}

func (s *ListingService) Update(ctx context.Context, ownerID string, id int64, input UpdateListingInput) (*models.TradeListing, error) {
	if input.Offering != nil && len(input.Offering) == 0 {
		return nil, &repositories.ValidationError{Field: "offering", Reason: "must include at least one item"}
	}
	if input.Requesting != nil && len(input.Requesting) == 0 {
		return nil, &repositories.ValidationError{Field: "requesting", Reason: "must include at least one item"}
	}
	if input.Status != nil {
		switch *input.Status {
		case models.ListingActive, models.ListingCompleted, models.ListingCancelled:
		default:
			return nil, &repositories.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *input.Status)}
		}
	}
	if input.Notes != nil && *input.Notes != "" {
		if result := s.moderation.Moderate(ctx, *input.Notes); !result.Safe {
			return nil, &repositories.ValidationError{Field: "notes", Reason: result.Reason}
		}
	}

	if len(input.Offering) > 0 || len(input.Requesting) > 0 {
		current, err := s.listings.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		ids := append(append([]int64{}, input.Offering...), input.Requesting...)
		if err := s.validateItems(ctx, current.Game, ids); err != nil {
			return nil, err
		}
	}

	listing, err := s.listings.Update(ctx, ownerID, id, repositories.ListingUpdate{
		Status:     input.Status,
		Offering:   input.Offering,
		Requesting: input.Requesting,
		Notes:      input.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, listing)
}

func (s *ListingService) Delete(ctx context.Context, ownerID string, id int64) error {
	deleted, err := s.listings.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &repositories.NotFoundError{Entity: "listing", ID: id}
	}
	return nil
}

// validateItems checks that every referenced item exists and belongs to
// the listing's game.
func (s *ListingService) validateItems(ctx context.Context, game models.Game, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[int64]*models.Item, len(items))
	for _, item := range items {
		known[item.ID] = item
	}
	for _, id := range ids {
		item, ok := known[id]
		if !ok {
			return &repositories.ValidationError{Field: "items", Reason: fmt.Sprintf("item %d does not exist", id)}
		}
		if item.Game != game {
			return &repositories.ValidationError{Field: "items", Reason: fmt.Sprintf("item %d belongs to %s, not %s", id, item.Game, game)}
		}
	}
	return nil
}

func (s *ListingService) withOwner(ctx context.Context, listing *models.TradeListing) (*models.TradeListing, error) {
	profile, err := s.users.GetProfile(ctx, listing.OwnerID)
	if err != nil {
		return nil, err
	}
	listing.Owner = profile
	return listing, nil
}

func (s *ListingService) attachOwners(ctx context.Context, listings []*models.TradeListing) ([]*models.TradeListing, error) {
	if len(listings) == 0 {
		return listings, nil
	}
	ids := make([]string, 0, len(listings))
	seen := make(map[string]bool, len(listings))
	for _, listing := range listings {
		if !seen[listing.OwnerID] {
			seen[listing.OwnerID] = true
			ids = append(ids, listing.OwnerID)
		}
	}
	profiles, err := s.users.GetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, listing := range listings {
		listing.Owner = profiles[listing.OwnerID]
	}
	return listings, nil
}
