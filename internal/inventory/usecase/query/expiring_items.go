package query

import (
	"fmt"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// ExpiringItemsQuery represents the query for items nearing expiration.
// Threshold <= 0 falls back to the dashboard default.
type ExpiringItemsQuery struct {
	OwnerID   string
	Threshold int
}

// ExpiringItemsHandler handles the expiring-soon view
type ExpiringItemsHandler struct {
	repo domain.ItemRepository
}

// NewExpiringItemsHandler creates a new expiring items handler
func NewExpiringItemsHandler(repo domain.ItemRepository) *ExpiringItemsHandler {
	return &ExpiringItemsHandler{repo: repo}
}

// Handle executes the expiring items query. The store filter narrows the
// fetch; ordering (days ascending, name tiebreak) is applied in memory.
func (h *ExpiringItemsHandler) Handle(q ExpiringItemsQuery) ([]domain.InventoryItem, error) {
	threshold := q.Threshold
	if threshold <= 0 {
		threshold = domain.DashboardExpiryThreshold
	}

	items, err := h.repo.FindExpiring(q.OwnerID, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}

	return domain.ExpiringSoon(items, threshold), nil
}
