package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Game identifies the title an item (or listing) belongs to.
type Game string

const (
	GameMM2     Game = "mm2"
	GameAdoptMe Game = "adoptme"
	GameSAB     Game = "sab"
	GameGAG     Game = "gag"
)

var SupportedGames = []Game{GameMM2, GameAdoptMe, GameSAB, GameGAG}

// IsValidGame reports whether g is one of the supported titles.
func IsValidGame(g Game) bool {
	for _, s := range SupportedGames {
		if g == s {
			return true
		}
	}
	return false
}

// Item is catalog reference data. The trading core only reads it; writes
// come from the admin API and the catalog bot.
//
// Every game shares the common columns (name, section, base value, image,
// rarity, demand); per-game value variants (neon/mega/fly/ride and other
// named variants) live in the Variants map so the row shape stays flat.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID        int64              `bun:"id,pk,autoincrement"`
	Game      Game               `bun:"game,notnull"`
	Name      string             `bun:"name,notnull"`
	Section   string             `bun:"section"`
	BaseValue float64            `bun:"base_value,notnull,default:0"`
	Variants  map[string]float64 `bun:"variants,type:jsonb"`
	ImageURL  string             `bun:"image_url"`
	Rarity    string             `bun:"rarity"`
	Demand    string             `bun:"demand"`
	CreatedAt time.Time          `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time          `bun:"updated_at,notnull,default:current_timestamp"`
}

// Known variant keys for Adopt Me items.
const (
	VariantNeon      = "neon"
	VariantMega      = "mega"
	VariantFlyBonus  = "fly"
	VariantRideBonus = "ride"
)

// VariantValue returns the value for a named variant, falling back to the
// base value when the variant is not priced.
func (i *Item) VariantValue(key string) float64 {
	if v, ok := i.Variants[key]; ok {
		return v
	}
	return i.BaseValue
}
