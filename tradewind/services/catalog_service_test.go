package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

func newCatalogFixture() *CatalogService {
	items := newFakeItems(
		&models.Item{ID: 1, Game: models.GameMM2, Name: "Chroma Luger"},
		&models.Item{ID: 2, Game: models.GameMM2, Name: "Chroma Seer"},
		&models.Item{ID: 3, Game: models.GameAdoptMe, Name: "Shadow Dragon"},
		&models.Item{ID: 4, Game: models.GameAdoptMe, Name: "Frost Dragon"},
	)
	return NewCatalogService(items)
}

func TestCatalogSearch(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	results, err := svc.Search(ctx, "chroma", nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Fuzzy matching tolerates partial input.
	results, err = svc.Search(ctx, "shdw drg", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Shadow Dragon", results[0].Name)

	// Scoping to a game filters before matching.
	game := models.GameMM2
	results, err = svc.Search(ctx, "dragon", &game)
	require.NoError(t, err)
	require.Empty(t, results)

	// Blank query falls back to a plain listing.
	results, err = svc.Search(ctx, "   ", &game)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestCatalogListRejectsUnknownGame(t *testing.T) {
	svc := newCatalogFixture()

	bogus := models.Game("fortnite")
	_, err := svc.List(context.Background(), &bogus)
	require.True(t, repositories.IsValidation(err))
}

func TestCatalogItemValidation(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		item *models.Item
	}{
		{"unsupported game", &models.Item{Game: "fortnite", Name: "Thing"}},
		{"blank name", &models.Item{Game: models.GameMM2, Name: "   "}},
		{"negative base value", &models.Item{Game: models.GameMM2, Name: "Thing", BaseValue: -1}},
		{"negative variant", &models.Item{Game: models.GameAdoptMe, Name: "Thing", Variants: map[string]float64{models.VariantNeon: -5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.item)
			require.True(t, repositories.IsValidation(err))
		})
	}

	item, err := svc.Create(ctx, &models.Item{
		Game:      models.GameAdoptMe,
		Name:      "Bat Dragon",
		BaseValue: 100,
		Variants:  map[string]float64{models.VariantNeon: 400, models.VariantMega: 1600},
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)
}

func TestVariantValueFallsBack(t *testing.T) {
	item := &models.Item{
		Game:      models.GameAdoptMe,
		Name:      "Frost Dragon",
		BaseValue: 50,
		Variants:  map[string]float64{models.VariantNeon: 200},
	}

	require.Equal(t, float64(200), item.VariantValue(models.VariantNeon))
	require.Equal(t, float64(50), item.VariantValue(models.VariantMega))
}
