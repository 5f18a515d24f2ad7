package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// UpdateItemCommand represents a partial edit of an existing item.
// Nil pointer fields are left unchanged. SetExpiry distinguishes
// "leave expiry alone" from an explicit edit, which may also clear it
// (ExpiryDays nil with SetExpiry true marks the item non-expiring).
type UpdateItemCommand struct {
	ID         string
	Name       *string
	Quantity   *float64
	Unit       *string
	Category   *string
	ExpiryDays *int
	SetExpiry  bool
}

// UpdateItemHandler handles item edits
type UpdateItemHandler struct {
	repo domain.ItemRepository
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(repo domain.ItemRepository) *UpdateItemHandler {
	return &UpdateItemHandler{repo: repo}
}

// Handle executes the update item command. Status is re-derived from the
// resulting expiry days on every edit, so the stored status can never
// drift from the classification policy.
func (h *UpdateItemHandler) Handle(cmd UpdateItemCommand) (*domain.InventoryItem, error) {
	if cmd.ID == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if cmd.Quantity != nil && *cmd.Quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if cmd.SetExpiry && cmd.ExpiryDays != nil && *cmd.ExpiryDays < 0 {
		return nil, &domain.ValidationError{Field: "expiry_days", Reason: "cannot be negative"}
	}

	item, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		item.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Quantity != nil {
		item.Quantity = *cmd.Quantity
	}
	if cmd.Unit != nil {
		item.Unit = *cmd.Unit
	}
	if cmd.Category != nil {
		item.Category = *cmd.Category
	}
	if cmd.SetExpiry {
		item.ExpiryDays = cmd.ExpiryDays
	}

	item.Status = domain.Classify(item.ExpiryDays)
	item.UpdatedAt = time.Now()

	if err := h.repo.Update(item); err != nil {
		if err == domain.ErrItemNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}
