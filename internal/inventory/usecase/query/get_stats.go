package query

import (
	"fmt"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// GetStatsQuery represents the query for dashboard aggregates
type GetStatsQuery struct {
	OwnerID string
}

// InventoryStats holds category and status aggregates over one snapshot
type InventoryStats struct {
	TotalItems    int            `json:"total_items"`
	ByCategory    map[string]int `json:"by_category"`
	GoodCount     int            `json:"good_count"`
	WarningCount  int            `json:"warning_count"`
	BadCount      int            `json:"bad_count"`
	ExpiringCount int            `json:"expiring_count"`
}

// GetStatsHandler handles dashboard aggregate queries
type GetStatsHandler struct {
	repo domain.ItemRepository
}

// NewGetStatsHandler creates a new stats handler
func NewGetStatsHandler(repo domain.ItemRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(q GetStatsQuery) (*InventoryStats, error) {
	items, err := h.repo.FindByOwner(q.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute inventory stats: %w", err)
	}

	stats := &InventoryStats{
		TotalItems: len(items),
		ByCategory: domain.CategoryHistogram(items),
	}
	for _, item := range items {
		switch item.Status {
		case domain.StatusGood:
			stats.GoodCount++
		case domain.StatusWarning:
			stats.WarningCount++
		case domain.StatusBad:
			stats.BadCount++
		}
	}
	stats.ExpiringCount = len(domain.ExpiringSoon(items, domain.DashboardExpiryThreshold))

	return stats, nil
}
