package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

// ListingUpdate is a partial update; nil fields are left unchanged.
type ListingUpdate struct {
	Status     *models.ListingStatus
	Offering   []int64
	Requesting []int64
	Notes      *string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *models.TradeListing) error
	GetByID(ctx context.Context, id int64) (*models.TradeListing, error)
	GetActive(ctx context.Context, game *models.Game) ([]*models.TradeListing, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.TradeListing, error)
	Update(ctx context.Context, ownerID string, id int64, update ListingUpdate) (*models.TradeListing, error)
	Delete(ctx context.Context, ownerID string, id int64) (bool, error)
	DeleteExpired(ctx context.Context, retention time.Duration) (int64, error)
	CountActive(ctx context.Context, ownerID string) (int, error)
}

type listingRepository struct {
	BaseRepository
	retention time.Duration
}

func NewListingRepository(db *bun.DB, retention time.Duration) ListingRepository {
	if retention <= 0 {
		retention = config.DefaultListingRetention
	}
	return &listingRepository{BaseRepository: NewBaseRepository(db), retention: retention}
}

// Create inserts a listing subject to the per-owner active cap. The count
// and insert run in one transaction holding a per-owner advisory lock, so
// two concurrent creates from the same user cannot both slip under the
// cap.
func (r *listingRepository) Create(ctx context.Context, listing *models.TradeListing) error {
	now := time.Now()
	listing.Status = models.ListingActive
	listing.CreatedAt = now
	listing.UpdatedAt = now

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", listing.OwnerID).Exec(ctx); err != nil {
			return err
		}

		count, err := tx.NewSelect().
			Model((*models.TradeListing)(nil)).
			Where("owner_id = ? AND status = ?", listing.OwnerID, models.ListingActive).
			Count(ctx)
		if err != nil {
			return err
		}
		if count >= config.MaxActiveListings {
			return &QuotaError{Resource: "listings", Limit: config.MaxActiveListings}
		}

		_, err = tx.NewInsert().Model(listing).Exec(ctx)
		return err
	})
	if err != nil {
		if IsQuota(err) {
			return err
		}
		return r.HandleError("create", "listing", nil, err)
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*models.TradeListing, error) {
	listing := new(models.TradeListing)
	err := r.DB().NewSelect().
		Model(listing).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "listing", id, err)
	}
	return listing, nil
}

// GetActive sweeps expired rows first, then returns the remaining active
// listings newest-first, optionally filtered by game. The sweep-on-read
// coupling is deliberate: a single read is enough to observe expiry.
func (r *listingRepository) GetActive(ctx context.Context, game *models.Game) ([]*models.TradeListing, error) {
	if _, err := r.DeleteExpired(ctx, r.retention); err != nil {
		// A failed sweep should not block the read path.
		slog.Warn("Listing expiry sweep failed",
			slog.String("type", "db"),
			slog.Any("error", err))
	}

	var listings []*models.TradeListing
	if err := r.activeQuery(&listings, game).Scan(ctx); err != nil {
		return nil, r.HandleError("list", "listings", nil, err)
	}
	return listings, nil
}

// activeQuery builds the active-listing read. The destination slice is
// bound up front; bun rejects queries whose model is set after the fact.
func (r *listingRepository) activeQuery(listings *[]*models.TradeListing, game *models.Game) *bun.SelectQuery {
	q := r.DB().NewSelect().
		Model(listings).
		Where("status = ?", models.ListingActive)
	if game != nil {
		q = q.Where("game = ?", *game)
	}
	return q.Order("created_at DESC")
}

func (r *listingRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.TradeListing, error) {
	var listings []*models.TradeListing
	err := r.DB().NewSelect().
		Model(&listings).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "listings", ownerID, err)
	}
	return listings, nil
}

// Update applies a partial update scoped to the owning user. A listing
// that does not exist and one owned by someone else produce the same
// NotFoundError.
func (r *listingRepository) Update(ctx context.Context, ownerID string, id int64, update ListingUpdate) (*models.TradeListing, error) {
	q := r.DB().NewUpdate().
		Model((*models.TradeListing)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND owner_id = ?", id, ownerID)

	if update.Status != nil {
		q = q.Set("status = ?", *update.Status)
	}
	if update.Offering != nil {
		q = q.Set("offering = ?", update.Offering)
	}
	if update.Requesting != nil {
		q = q.Set("requesting = ?", update.Requesting)
	}
	if update.Notes != nil {
		q = q.Set("notes = ?", *update.Notes)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, r.HandleError("update", "listing", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, r.HandleError("update", "listing", id, err)
	}
	if affected == 0 {
		return nil, &NotFoundError{Entity: "listing", ID: id}
	}

	return r.GetByID(ctx, id)
}

// Delete removes an owner's listing together with its interactions in one
// transaction. Returns false when nothing matched.
func (r *listingRepository) Delete(ctx context.Context, ownerID string, id int64) (bool, error) {
	var deleted bool
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.TradeListing)(nil)).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		deleted = true

		_, err = tx.NewDelete().
			Model((*models.TradeInteraction)(nil)).
			Where("listing_id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return false, r.HandleError("delete", "listing", id, err)
	}
	return deleted, nil
}

// DeleteExpired drops listings older than the retention window regardless
// of status, cascading to their interactions.
func (r *listingRepository) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	var swept int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var expiredIDs []int64
		err := expiredListingIDs(tx, cutoff).Scan(ctx, &expiredIDs)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if len(expiredIDs) == 0 {
			return nil
		}

		if _, err := tx.NewDelete().
			Model((*models.TradeInteraction)(nil)).
			Where("listing_id IN (?)", bun.In(expiredIDs)).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*models.TradeListing)(nil)).
			Where("id IN (?)", bun.In(expiredIDs)).
			Exec(ctx)
		if err != nil {
			return err
		}
		swept, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, r.HandleError("sweep", "listings", nil, err)
	}
	if swept > 0 {
		slog.Info("Expired listings swept",
			slog.String("type", "db"),
			slog.Int64("count", swept))
	}
	return swept, nil
}

// expiredListingIDs selects listings older than the cutoff regardless of
// status.
func expiredListingIDs(idb bun.IDB, cutoff time.Time) *bun.SelectQuery {
	return idb.NewSelect().
		Model((*models.TradeListing)(nil)).
		Column("id").
		Where("created_at < ?", cutoff)
}

func (r *listingRepository) CountActive(ctx context.Context, ownerID string) (int, error) {
	count, err := r.DB().NewSelect().
		Model((*models.TradeListing)(nil)).
		Where("owner_id = ? AND status = ?", ownerID, models.ListingActive).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "listings", ownerID, err)
	}
	return count, nil
}
