package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// CreateItemCommand represents the command to create a new inventory item.
// ExpiryDays nil means the item does not expire. The same shape is used
// for manual entry and for fields produced by the product recognizer.
type CreateItemCommand struct {
	OwnerID    string
	Name       string
	Quantity   float64
	Unit       string
	Category   string
	ExpiryDays *int
}

// CreateItemHandler handles item creation
type CreateItemHandler struct {
	repo domain.ItemRepository
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(repo domain.ItemRepository) *CreateItemHandler {
	return &CreateItemHandler{repo: repo}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if cmd.OwnerID == "" {
		return nil, &domain.ValidationError{Field: "owner_id", Reason: "is required"}
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if cmd.Quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if cmd.ExpiryDays != nil && *cmd.ExpiryDays < 0 {
		return nil, &domain.ValidationError{Field: "expiry_days", Reason: "cannot be negative"}
	}

	unit := cmd.Unit
	if unit == "" {
		unit = "pcs"
	}

	now := time.Now()
	item := &domain.InventoryItem{
		ID:         uuid.NewString(),
		OwnerID:    cmd.OwnerID,
		Name:       strings.TrimSpace(cmd.Name),
		Quantity:   cmd.Quantity,
		Unit:       unit,
		Category:   cmd.Category,
		ExpiryDays: cmd.ExpiryDays,
		Status:     domain.Classify(cmd.ExpiryDays),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.repo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}
