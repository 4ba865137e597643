package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *bun.DB) SessionRepository {
	return &sessionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	session.CreatedAt = time.Now()

	_, err := r.DB().NewInsert().Model(session).Exec(ctx)
	return r.HandleError("create", "session", session.ID, err)
}

// Get returns the session only while it is still valid; an expired row is
// removed on sight.
func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	session := new(models.Session)
	err := r.DB().NewSelect().
		Model(session).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "session", id, err)
	}

	if session.Expired() {
		if err := r.Delete(ctx, id); err != nil {
			slog.Warn("Failed to drop expired session",
				slog.String("type", "db"),
				slog.Any("error", err))
		}
		return nil, &NotFoundError{Entity: "session", ID: id}
	}
	return session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB().NewDelete().
		Model((*models.Session)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return r.HandleError("delete", "session", id, err)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB().NewDelete().
		Model((*models.Session)(nil)).
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleError("sweep", "sessions", nil, err)
	}
	swept, _ := res.RowsAffected()
	return swept, nil
}
