package command

import (
	"context"
	"fmt"

	invdomain "github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/recipe/domain"
	"github.com/invensync/invensync/internal/recipe/selection"
)

// Generator is the external recipe generator contract
type Generator interface {
	Generate(ctx context.Context, ingredients []domain.Ingredient, dietary []string, settings domain.Settings, profile domain.Profile) (*domain.Recipe, error)
}

// GenerateRecipeCommand represents the command to generate a recipe from
// the owner's current ingredient selection
type GenerateRecipeCommand struct {
	OwnerID  string
	Dietary  []string
	Settings domain.Settings
	Profile  domain.Profile
}

// GenerateRecipeHandler assembles the selection into the generator input
type GenerateRecipeHandler struct {
	generator  Generator
	selections *selection.Manager
}

// NewGenerateRecipeHandler creates a new generate recipe handler
func NewGenerateRecipeHandler(generator Generator, selections *selection.Manager) *GenerateRecipeHandler {
	return &GenerateRecipeHandler{generator: generator, selections: selections}
}

// Handle executes the generate recipe command. The selection is read,
// never mutated: generating a recipe has no effect on the working set
// or on persisted inventory.
func (h *GenerateRecipeHandler) Handle(ctx context.Context, cmd GenerateRecipeCommand) (*domain.Recipe, error) {
	if cmd.OwnerID == "" {
		return nil, &invdomain.ValidationError{Field: "owner_id", Reason: "is required"}
	}

	ingredients := h.selections.Get(cmd.OwnerID).Ingredients()
	if len(ingredients) == 0 {
		return nil, &invdomain.ValidationError{Field: "ingredients", Reason: "selection is empty"}
	}

	recipe, err := h.generator.Generate(ctx, ingredients, cmd.Dietary, cmd.Settings, cmd.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}
	return recipe, nil
}
