package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 500

// Importer copies the legacy Mongo item catalog into Postgres. Documents
// that cannot be mapped to a supported game are skipped, not fatal.
type Importer struct {
	pgDB      *bun.DB
	mongoURI  string
	database  string
	batchSize int
	stats     *ImportStats
}

func NewImporter(pgDB *bun.DB, mongoURI, database string, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Importer{
		pgDB:      pgDB,
		mongoURI:  mongoURI,
		database:  database,
		batchSize: batchSize,
		stats:     &ImportStats{StartTime: time.Now()},
	}
}

// Run connects to Mongo, streams the items collection, and inserts the
// converted rows in parallel batches. Existing rows with the same game
// and name are left untouched.
func (i *Importer) Run(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(i.mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Warn("Failed to disconnect mongo client",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo unreachable: %w", err)
	}

	coll := client.Database(i.database).Collection("items")
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query legacy items: %w", err)
	}
	defer cursor.Close(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	batch := make([]*models.Item, 0, i.batchSize)
	var skipped int64
	for cursor.Next(ctx) {
		var legacy LegacyItem
		if err := cursor.Decode(&legacy); err != nil {
			skipped++
			continue
		}
		item, ok := convertLegacyItem(legacy)
		if !ok {
			skipped++
			continue
		}

		batch = append(batch, item)
		if len(batch) >= i.batchSize {
			i.spawnBatch(g, gctx, batch)
			batch = make([]*models.Item, 0, i.batchSize)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("legacy cursor failed: %w", err)
	}
	if len(batch) > 0 {
		i.spawnBatch(g, gctx, batch)
	}
	i.stats.record(0, skipped, 0)

	if err := g.Wait(); err != nil {
		return err
	}

	imported, skippedTotal, failed := i.stats.Snapshot()
	slog.Info("Catalog import complete",
		slog.String("type", "db"),
		slog.Int64("imported", imported),
		slog.Int64("skipped", skippedTotal),
		slog.Int64("failed", failed),
		slog.Duration("elapsed", i.stats.Elapsed()))
	return nil
}

func (i *Importer) spawnBatch(g *errgroup.Group, ctx context.Context, batch []*models.Item) {
	items := batch
	g.Go(func() error {
		batchCtx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
		defer cancel()

		res, err := i.pgDB.NewInsert().
			Model(&items).
			On("CONFLICT (game, name) DO NOTHING").
			Exec(batchCtx)
		if err != nil {
			i.stats.record(0, 0, int64(len(items)))
			return fmt.Errorf("failed to insert item batch: %w", err)
		}
		inserted, _ := res.RowsAffected()
		i.stats.record(inserted, int64(len(items))-inserted, 0)
		return nil
	})
}

// convertLegacyItem maps a Mongo document onto the Postgres model. The
// legacy database used loose game labels, normalized here.
func convertLegacyItem(legacy LegacyItem) (*models.Item, bool) {
	game, ok := normalizeGame(legacy.Game)
	if !ok {
		return nil, false
	}
	name := strings.TrimSpace(legacy.Name)
	if name == "" {
		return nil, false
	}

	created := legacy.Created
	if created.IsZero() {
		created = time.Now()
	}

	return &models.Item{
		Game:      game,
		Name:      name,
		Section:   legacy.Section,
		BaseValue: legacy.Value,
		Variants:  legacy.Variants,
		ImageURL:  legacy.ImageURL,
		Rarity:    legacy.Rarity,
		Demand:    legacy.Demand,
		CreatedAt: created,
		UpdatedAt: time.Now(),
	}, true
}

func normalizeGame(raw string) (models.Game, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mm2", "murder mystery 2", "murdermystery2":
		return models.GameMM2, true
	case "adoptme", "adopt me", "am":
		return models.GameAdoptMe, true
	case "sab", "steal a brainrot", "stealabrainrot":
		return models.GameSAB, true
	case "gag", "grow a garden", "growagarden":
		return models.GameGAG, true
	default:
		return "", false
	}
}
