package migration

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyItem is the shape of a catalog document in the old Mongo
// database.
type LegacyItem struct {
	ID       primitive.ObjectID `bson:"_id"`
	Game     string             `bson:"game"`
	Name     string             `bson:"name"`
	Section  string             `bson:"section,omitempty"`
	Value    float64            `bson:"value"`
	Variants map[string]float64 `bson:"variants,omitempty"`
	ImageURL string             `bson:"image_url,omitempty"`
	Rarity   string             `bson:"rarity,omitempty"`
	Demand   string             `bson:"demand,omitempty"`
	Created  time.Time          `bson:"created,omitempty"`
}

// ImportStats tracks per-collection progress across concurrent batch
// workers.
type ImportStats struct {
	mu        sync.Mutex
	Imported  int64
	Skipped   int64
	Failed    int64
	StartTime time.Time
}

func (s *ImportStats) record(imported, skipped, failed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Imported += imported
	s.Skipped += skipped
	s.Failed += failed
}

// Snapshot returns a copy safe to read while workers are running.
func (s *ImportStats) Snapshot() (imported, skipped, failed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Imported, s.Skipped, s.Failed
}

func (s *ImportStats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}
