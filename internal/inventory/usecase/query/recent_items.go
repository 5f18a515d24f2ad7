package query

import (
	"fmt"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// RecentItemsQuery represents the query for recently added items
type RecentItemsQuery struct {
	OwnerID string
	Limit   int
}

// RecentItemsHandler handles the recency view
type RecentItemsHandler struct {
	repo domain.ItemRepository
}

// NewRecentItemsHandler creates a new recent items handler
func NewRecentItemsHandler(repo domain.ItemRepository) *RecentItemsHandler {
	return &RecentItemsHandler{repo: repo}
}

// Handle executes the recent items query
func (h *RecentItemsHandler) Handle(q RecentItemsQuery) ([]domain.InventoryItem, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 3
	}

	items, err := h.repo.FindByOwner(q.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent items: %w", err)
	}

	return domain.RecentItems(items, limit), nil
}
