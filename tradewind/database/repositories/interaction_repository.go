package repositories

import (
	"context"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *models.TradeInteraction) error
	GetByID(ctx context.Context, id int64) (*models.TradeInteraction, error)
	GetByListing(ctx context.Context, listingID int64) ([]*models.TradeInteraction, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.InteractionStatus) error
}

type interactionRepository struct {
	BaseRepository
}

func NewInteractionRepository(db *bun.DB) InteractionRepository {
	return &interactionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *interactionRepository) Create(ctx context.Context, interaction *models.TradeInteraction) error {
	now := time.Now()
	interaction.Status = models.InteractionPending
	interaction.CreatedAt = now
	interaction.UpdatedAt = now

	_, err := r.DB().NewInsert().Model(interaction).Exec(ctx)
	return r.HandleError("create", "interaction", nil, err)
}

func (r *interactionRepository) GetByID(ctx context.Context, id int64) (*models.TradeInteraction, error) {
	interaction := new(models.TradeInteraction)
	err := r.DB().NewSelect().
		Model(interaction).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "interaction", id, err)
	}
	return interaction, nil
}

func (r *interactionRepository) GetByListing(ctx context.Context, listingID int64) ([]*models.TradeInteraction, error) {
	var interactions []*models.TradeInteraction
	err := r.DB().NewSelect().
		Model(&interactions).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "interactions", listingID, err)
	}
	return interactions, nil
}

// UpdateStatus transitions an interaction only when it is still in the
// expected `from` state; a terminal interaction stays frozen.
func (r *interactionRepository) UpdateStatus(ctx context.Context, id int64, from, to models.InteractionStatus) error {
	res, err := r.DB().NewUpdate().
		Model((*models.TradeInteraction)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", id, from).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "interaction", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("update", "interaction", id, err)
	}
	if affected == 0 {
		return &ConflictError{Entity: "interaction", Reason: "not in a transitionable state"}
	}
	return nil
}
