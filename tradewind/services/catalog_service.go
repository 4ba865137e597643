package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

// ItemSearchItems implements fuzzy.Source for catalog searching.
type ItemSearchItems []ItemSearchItem

type ItemSearchItem struct {
	Item *models.Item
	Name string
}

func (items ItemSearchItems) Len() int {
	return len(items)
}

func (items ItemSearchItems) String(i int) string {
	return items[i].Name
}

// CatalogService owns the item catalog: admin CRUD plus fuzzy search over
// item names.
type CatalogService struct {
	items repositories.ItemRepository
}

func NewCatalogService(items repositories.ItemRepository) *CatalogService {
	return &CatalogService{items: items}
}

func (s *CatalogService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, game *models.Game) ([]*models.Item, error) {
	if game != nil {
		if !models.IsValidGame(*game) {
			return nil, &repositories.ValidationError{Field: "game", Reason: "unsupported game"}
		}
		return s.items.GetByGame(ctx, *game)
	}
	return s.items.GetAll(ctx)
}

func (s *CatalogService) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item from the catalog. Items still referenced by an
// active listing are refused with a conflict.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}

// Search fuzzy-matches the query against item names, optionally scoped to
// one game. Results come back in relevance order.
func (s *CatalogService) Search(ctx context.Context, query string, game *models.Game) ([]*models.Item, error) {
	items, err := s.List(ctx, game)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return items, nil
	}

	searchItems := make(ItemSearchItems, len(items))
	for i, item := range items {
		searchItems[i] = ItemSearchItem{
			Item: item,
			Name: strings.ToLower(item.Name),
		}
	}

	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(query)), searchItems)
	results := make([]*models.Item, len(matches))
	for i, match := range matches {
		results[i] = searchItems[match.Index].Item
	}
	return results, nil
}

func validateItem(item *models.Item) error {
	if !models.IsValidGame(item.Game) {
		return &repositories.ValidationError{Field: "game", Reason: "unsupported game"}
	}
	if strings.TrimSpace(item.Name) == "" {
		return &repositories.ValidationError{Field: "name", Reason: "name is required"}
	}
	if item.BaseValue < 0 {
		return &repositories.ValidationError{Field: "base_value", Reason: "value cannot be negative"}
	}
	for variant, value := range item.Variants {
		if value < 0 {
			return &repositories.ValidationError{Field: "variants", Reason: "variant " + variant + " cannot be negative"}
		}
	}
	return nil
}
