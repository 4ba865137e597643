package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Item, error)
	GetByGame(ctx context.Context, game models.Game) ([]*models.Item, error)
	GetAll(ctx context.Context) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
}

type itemRepository struct {
	BaseRepository
}

func NewItemRepository(db *bun.DB) ItemRepository {
	return &itemRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.DB().NewInsert().Model(item).Exec(ctx)
	return r.HandleError("create", "item", nil, err)
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item := new(models.Item)
	err := r.DB().NewSelect().
		Model(item).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "item", id, err)
	}
	return item, nil
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []*models.Item
	err := r.DB().NewSelect().
		Model(&items).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("list", "items", nil, err)
	}
	return items, nil
}

func (r *itemRepository) GetByGame(ctx context.Context, game models.Game) ([]*models.Item, error) {
	var items []*models.Item
	err := r.DB().NewSelect().
		Model(&items).
		Where("game = ?", game).
		Order("name ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("list", "items", game, err)
	}
	return items, nil
}

func (r *itemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	err := r.DB().NewSelect().
		Model(&items).
		Order("game ASC", "name ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("list", "items", nil, err)
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now()

	res, err := r.DB().NewUpdate().
		Model(item).
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "item", item.ID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "item", ID: item.ID}
	}
	return nil
}

// Delete refuses to remove an item still referenced by an active listing,
// checked inside the delete transaction.
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		referenced, err := tx.NewSelect().
			Model((*models.TradeListing)(nil)).
			Where("status = ?", models.ListingActive).
			Where("offering @> ? OR requesting @> ?", []int64{id}, []int64{id}).
			Exists(ctx)
		if err != nil {
			return err
		}
		if referenced {
			return &ConflictError{Entity: "item", Reason: "referenced by an active listing"}
		}

		res, err := tx.NewDelete().
			Model((*models.Item)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if IsConflict(err) {
		return err
	}
	return r.HandleError("delete", "item", id, err)
}
