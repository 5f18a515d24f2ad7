package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	invdomain "github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/middleware"
	"github.com/invensync/invensync/internal/recipe/domain"
	"github.com/invensync/invensync/internal/recipe/selection"
	"github.com/invensync/invensync/internal/recipe/usecase/command"
	"github.com/invensync/invensync/pkg/logger"
)

// RecipeStore is the saved-recipe persistence contract
type RecipeStore interface {
	Save(ctx context.Context, ownerID string, recipe *domain.Recipe) error
	List(ctx context.Context, ownerID string) ([]domain.Recipe, error)
	IsSaved(ctx context.Context, ownerID, recipeID string) (bool, error)
	Delete(ctx context.Context, ownerID, recipeID string) error
}

// RecipeHandler handles ingredient selection and recipe requests
type RecipeHandler struct {
	selections      *selection.Manager
	items           invdomain.ItemRepository
	generateHandler *command.GenerateRecipeHandler
	recipes         RecipeStore
}

// NewRecipeHandler creates a new recipe handler. recipes may be nil when
// no saved-recipe store is configured; the save/list endpoints then
// report the store as unavailable.
func NewRecipeHandler(items invdomain.ItemRepository, generator command.Generator, recipes RecipeStore) *RecipeHandler {
	selections := selection.NewManager()
	return &RecipeHandler{
		selections:      selections,
		items:           items,
		generateHandler: command.NewGenerateRecipeHandler(generator, selections),
		recipes:         recipes,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// GetSelection handles GET /api/selection
func (h *RecipeHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.selections.Get(ownerID).Entries(),
	})
}

// ToggleItem handles POST /api/selection/items/{id}
func (h *RecipeHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	item, err := h.items.FindByID(mux.Vars(r)["id"])
	if err != nil || item.OwnerID != ownerID {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Item not found"})
		return
	}

	added := h.selections.Get(ownerID).Toggle(*item)
	message := "Item removed from selection"
	if added {
		message = "Item added to selection"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    h.selections.Get(ownerID).Entries(),
	})
}

// SetQuantity handles PATCH /api/selection/{id}
func (h *RecipeHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	sel := h.selections.Get(ownerID)
	sel.SetQuantity(mux.Vars(r)["id"], req.Quantity)

	respondJSON(w, http.StatusOK, Response{Success: true, Data: sel.Entries()})
}

// AddCustom handles POST /api/selection/custom
func (h *RecipeHandler) AddCustom(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	entry, err := h.selections.Get(ownerID).AddCustom(req.Name)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Custom ingredient added",
		Data:    entry,
	})
}

// RemoveEntry handles DELETE /api/selection/{id}
func (h *RecipeHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	sel := h.selections.Get(ownerID)
	sel.Remove(mux.Vars(r)["id"])

	respondJSON(w, http.StatusOK, Response{Success: true, Data: sel.Entries()})
}

// GenerateRecipe handles POST /api/recipes/generate
func (h *RecipeHandler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}

	var req struct {
		Dietary  []string        `json:"dietary"`
		Settings domain.Settings `json:"settings"`
		Profile  domain.Profile  `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	recipe, err := h.generateHandler.Handle(r.Context(), command.GenerateRecipeCommand{
		OwnerID:  ownerID,
		Dietary:  req.Dietary,
		Settings: req.Settings,
		Profile:  req.Profile,
	})
	if err != nil {
		var validationErr *invdomain.ValidationError
		if errors.As(err, &validationErr) {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to generate recipe")
		respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: "Failed to generate recipe"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: recipe})
}

// ListSavedRecipes handles GET /api/recipes
func (h *RecipeHandler) ListSavedRecipes(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}
	if h.recipes == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Recipe store not configured"})
		return
	}

	recipes, err := h.recipes.List(r.Context(), ownerID)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list saved recipes")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list saved recipes"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: recipes})
}

// SaveRecipe handles POST /api/recipes
func (h *RecipeHandler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}
	if h.recipes == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Recipe store not configured"})
		return
	}

	var recipe domain.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil || recipe.ID == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid recipe"})
		return
	}

	if err := h.recipes.Save(r.Context(), ownerID, &recipe); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to save recipe")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to save recipe"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Recipe saved"})
}

// IsRecipeSaved handles GET /api/recipes/{id}/saved
func (h *RecipeHandler) IsRecipeSaved(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}
	if h.recipes == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Recipe store not configured"})
		return
	}

	saved, err := h.recipes.IsSaved(r.Context(), ownerID, mux.Vars(r)["id"])
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to check saved recipe")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to check saved recipe"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]bool{"saved": saved}})
}

// DeleteSavedRecipe handles DELETE /api/recipes/{id}
func (h *RecipeHandler) DeleteSavedRecipe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not authenticated"})
		return
	}
	if h.recipes == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Recipe store not configured"})
		return
	}

	if err := h.recipes.Delete(r.Context(), ownerID, mux.Vars(r)["id"]); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to delete saved recipe")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete saved recipe"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Recipe deleted"})
}

// RegisterRoutes registers selection and recipe routes
func (h *RecipeHandler) RegisterRoutes(router *mux.Router, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/selection", authMiddleware(h.GetSelection)).Methods("GET")
	router.HandleFunc("/api/selection/custom", authMiddleware(h.AddCustom)).Methods("POST")
	router.HandleFunc("/api/selection/items/{id}", authMiddleware(h.ToggleItem)).Methods("POST")
	router.HandleFunc("/api/selection/{id}", authMiddleware(h.SetQuantity)).Methods("PATCH")
	router.HandleFunc("/api/selection/{id}", authMiddleware(h.RemoveEntry)).Methods("DELETE")
	router.HandleFunc("/api/recipes/generate", authMiddleware(h.GenerateRecipe)).Methods("POST")
	router.HandleFunc("/api/recipes", authMiddleware(h.ListSavedRecipes)).Methods("GET")
	router.HandleFunc("/api/recipes", authMiddleware(h.SaveRecipe)).Methods("POST")
	router.HandleFunc("/api/recipes/{id}/saved", authMiddleware(h.IsRecipeSaved)).Methods("GET")
	router.HandleFunc("/api/recipes/{id}", authMiddleware(h.DeleteSavedRecipe)).Methods("DELETE")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
