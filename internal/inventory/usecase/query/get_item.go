package query

import (
	"github.com/invensync/invensync/internal/inventory/domain"
)

// GetItemQuery represents the query to fetch a single item
type GetItemQuery struct {
	ID string
}

// GetItemHandler handles single item lookup
type GetItemHandler struct {
	repo domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(repo domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{repo: repo}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(q GetItemQuery) (*domain.InventoryItem, error) {
	if q.ID == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return h.repo.FindByID(q.ID)
}
