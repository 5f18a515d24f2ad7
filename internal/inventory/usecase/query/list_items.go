package query

import (
	"fmt"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// ListItemsQuery represents the query for an owner's inventory snapshot
// with optional category filter, name search, and sort mode.
type ListItemsQuery struct {
	OwnerID  string
	Category string
	Search   string
	Sort     domain.SortMode
}

// ListItemsHandler handles inventory listing
type ListItemsHandler struct {
	repo domain.ItemRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(repo domain.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(q ListItemsQuery) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	var err error

	if q.Category != "" {
		items, err = h.repo.FindByCategory(q.OwnerID, q.Category)
	} else {
		items, err = h.repo.FindByOwner(q.OwnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if q.Search != "" {
		items = domain.FilterByName(items, q.Search)
	}

	return domain.SortItems(items, q.Sort), nil
}
