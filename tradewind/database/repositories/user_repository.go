package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	GetProfile(ctx context.Context, discordID string) (*models.UserProfile, error)
	GetProfiles(ctx context.Context, discordIDs []string) (map[string]*models.UserProfile, error)
}

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

// Upsert refreshes the cached Discord identity on every login.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.Joined.IsZero() {
		user.Joined = now
	}
	user.UpdatedAt = now

	_, err := r.DB().NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("avatar = EXCLUDED.avatar").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return r.HandleError("upsert", "user", user.DiscordID, err)
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.DB().NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "user", discordID, err)
	}
	return user, nil
}

// GetProfile never fails on a missing user; an account we have not seen
// log in yet still owns listings, so it gets a placeholder profile.
func (r *userRepository) GetProfile(ctx context.Context, discordID string) (*models.UserProfile, error) {
	user, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		if IsNotFound(err) {
			return &models.UserProfile{
				DiscordID: discordID,
				Username:  config.UnknownUsername,
			}, nil
		}
		return nil, err
	}
	return &models.UserProfile{
		DiscordID: user.DiscordID,
		Username:  user.Username,
		Avatar:    user.Avatar,
	}, nil
}

// GetProfiles batch-resolves profiles; missing users get placeholders so
// every requested id has an entry.
func (r *userRepository) GetProfiles(ctx context.Context, discordIDs []string) (map[string]*models.UserProfile, error) {
	profiles := make(map[string]*models.UserProfile, len(discordIDs))
	if len(discordIDs) == 0 {
		return profiles, nil
	}

	var users []*models.User
	err := r.DB().NewSelect().
		Model(&users).
		Where("discord_id IN (?)", bun.In(discordIDs)).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("list", "users", nil, err)
	}

	for _, user := range users {
		profiles[user.DiscordID] = &models.UserProfile{
			DiscordID: user.DiscordID,
			Username:  user.Username,
			Avatar:    user.Avatar,
		}
	}
	for _, id := range discordIDs {
		if _, ok := profiles[id]; !ok {
			profiles[id] = &models.UserProfile{
				DiscordID: id,
				Username:  config.UnknownUsername,
			}
		}
	}
	return profiles, nil
}
