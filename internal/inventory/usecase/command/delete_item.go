package command

import (
	"fmt"

	"github.com/invensync/invensync/internal/inventory/domain"
)

// DeleteItemCommand represents the command to delete an inventory item.
// Deletion is always an explicit user action; nothing in the decay
// engine removes items on its own.
type DeleteItemCommand struct {
	ID string
}

// DeleteItemHandler handles item deletion
type DeleteItemHandler struct {
	repo domain.ItemRepository
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(repo domain.ItemRepository) *DeleteItemHandler {
	return &DeleteItemHandler{repo: repo}
}

// Handle executes the delete item command
func (h *DeleteItemHandler) Handle(cmd DeleteItemCommand) error {
	if cmd.ID == "" {
		return &domain.ValidationError{Field: "id", Reason: "is required"}
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		if err == domain.ErrItemNotFound {
			return err
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
