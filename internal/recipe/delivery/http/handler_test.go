package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	invdomain "github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/middleware"
	"github.com/invensync/invensync/internal/recipe/domain"
	"github.com/invensync/invensync/pkg/auth"
)

// stubItems serves a fixed inventory for selection tests
type stubItems struct {
	items map[string]invdomain.InventoryItem
}

func (r *stubItems) Create(*invdomain.InventoryItem) error { return nil }
func (r *stubItems) Update(*invdomain.InventoryItem) error { return nil }
func (r *stubItems) Delete(string) error                   { return nil }
func (r *stubItems) Count(string) (int64, error)           { return 0, nil }

func (r *stubItems) FindByID(id string) (*invdomain.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, invdomain.ErrItemNotFound
	}
	return &item, nil
}

func (r *stubItems) FindByOwner(string) ([]invdomain.InventoryItem, error) { return nil, nil }
func (r *stubItems) FindExpiring(string, int) ([]invdomain.InventoryItem, error) {
	return nil, nil
}
func (r *stubItems) FindByCategory(string, string) ([]invdomain.InventoryItem, error) {
	return nil, nil
}

// stubGenerator returns a canned recipe and records its input
type stubGenerator struct {
	mu          sync.Mutex
	ingredients []domain.Ingredient
}

func (g *stubGenerator) Generate(_ context.Context, ingredients []domain.Ingredient, _ []string, _ domain.Settings, _ domain.Profile) (*domain.Recipe, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ingredients = ingredients
	return &domain.Recipe{ID: "recipe-1", Title: "Stub Recipe", Ingredients: ingredients, CreatedAt: time.Now()}, nil
}

func (g *stubGenerator) seen() []domain.Ingredient {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ingredients
}

// memRecipes is an in-memory RecipeStore
type memRecipes struct {
	mu    sync.Mutex
	saved map[string]map[string]domain.Recipe
}

func newMemRecipes() *memRecipes {
	return &memRecipes{saved: make(map[string]map[string]domain.Recipe)}
}

func (s *memRecipes) Save(_ context.Context, ownerID string, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved[ownerID] == nil {
		s.saved[ownerID] = make(map[string]domain.Recipe)
	}
	s.saved[ownerID][recipe.ID] = *recipe
	return nil
}

func (s *memRecipes) List(_ context.Context, ownerID string) ([]domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Recipe
	for _, recipe := range s.saved[ownerID] {
		out = append(out, recipe)
	}
	return out, nil
}

func (s *memRecipes) IsSaved(_ context.Context, ownerID, recipeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[ownerID][recipeID]
	return ok, nil
}

func (s *memRecipes) Delete(_ context.Context, ownerID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved[ownerID], recipeID)
	return nil
}

func newRecipeServer(t *testing.T, generator *stubGenerator, recipes RecipeStore) *httptest.Server {
	t.Helper()
	items := &stubItems{items: map[string]invdomain.InventoryItem{
		"milk": {ID: "milk", OwnerID: "owner-1", Name: "Milk", Quantity: 2, Unit: "l"},
		"eggs": {ID: "eggs", OwnerID: "owner-2", Name: "Eggs", Quantity: 12, Unit: "pcs"},
	}}
	router := mux.NewRouter()
	NewRecipeHandler(items, generator, recipes).RegisterRoutes(router, middleware.Auth)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, userID, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func call(t *testing.T, method, url, token string, body any) (*http.Response, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

func TestSelectionFlow(t *testing.T) {
	generator := &stubGenerator{}
	server := newRecipeServer(t, generator, nil)
	token := bearer(t, "owner-1")

	// toggle an owned item in
	resp, _ := call(t, http.MethodPost, server.URL+"/api/selection/items/milk", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}

	// foreign item is invisible
	resp, _ = call(t, http.MethodPost, server.URL+"/api/selection/items/eggs", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign toggle status = %d, want 404", resp.StatusCode)
	}

	// add a custom ingredient and adjust the milk quantity
	resp, envelope := call(t, http.MethodPost, server.URL+"/api/selection/custom", token, map[string]string{"name": "salt"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("custom status = %d, body = %+v", resp.StatusCode, envelope)
	}
	call(t, http.MethodPatch, server.URL+"/api/selection/milk", token, map[string]float64{"quantity": 0.5})

	// generate reads the selection
	resp, envelope = call(t, http.MethodPost, server.URL+"/api/recipes/generate", token, map[string]any{})
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		t.Fatalf("generate status = %d, body = %+v", resp.StatusCode, envelope)
	}
	seen := generator.seen()
	if len(seen) != 2 {
		t.Fatalf("generator saw %d ingredients: %+v", len(seen), seen)
	}
	if seen[0].Name != "Milk" || seen[0].Quantity != 0.5 {
		t.Fatalf("ingredient[0] = %+v", seen[0])
	}
	if seen[1].Name != "salt" || seen[1].Unit != "item" {
		t.Fatalf("ingredient[1] = %+v", seen[1])
	}
}

func TestGenerateWithEmptySelection(t *testing.T) {
	server := newRecipeServer(t, &stubGenerator{}, nil)

	resp, _ := call(t, http.MethodPost, server.URL+"/api/recipes/generate", bearer(t, "owner-1"), map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSelectionsAreOwnerScoped(t *testing.T) {
	server := newRecipeServer(t, &stubGenerator{}, nil)

	call(t, http.MethodPost, server.URL+"/api/selection/items/milk", bearer(t, "owner-1"), nil)

	_, envelope := call(t, http.MethodGet, server.URL+"/api/selection", bearer(t, "owner-2"), nil)
	raw, _ := json.Marshal(envelope.Data)
	var entries []map[string]any
	json.Unmarshal(raw, &entries)
	if len(entries) != 0 {
		t.Fatalf("foreign owner sees %d entries", len(entries))
	}
}

func TestSavedRecipes(t *testing.T) {
	store := newMemRecipes()
	server := newRecipeServer(t, &stubGenerator{}, store)
	token := bearer(t, "owner-1")

	recipe := domain.Recipe{ID: "recipe-1", Title: "Stub Recipe", CreatedAt: time.Now()}
	resp, _ := call(t, http.MethodPost, server.URL+"/api/recipes", token, recipe)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d", resp.StatusCode)
	}

	_, envelope := call(t, http.MethodGet, server.URL+"/api/recipes", token, nil)
	raw, _ := json.Marshal(envelope.Data)
	var recipes []domain.Recipe
	json.Unmarshal(raw, &recipes)
	if len(recipes) != 1 || recipes[0].Title != "Stub Recipe" {
		t.Fatalf("recipes = %+v", recipes)
	}

	_, envelope = call(t, http.MethodGet, server.URL+"/api/recipes/recipe-1/saved", token, nil)
	flags, _ := envelope.Data.(map[string]any)
	if saved, _ := flags["saved"].(bool); !saved {
		t.Fatalf("saved flag = %+v", envelope.Data)
	}

	resp, _ = call(t, http.MethodDelete, server.URL+"/api/recipes/recipe-1", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if len(store.saved["owner-1"]) != 0 {
		t.Fatal("recipe not deleted")
	}
}

func TestSavedRecipesWithoutStore(t *testing.T) {
	server := newRecipeServer(t, &stubGenerator{}, nil)

	resp, _ := call(t, http.MethodGet, server.URL+"/api/recipes", bearer(t, "owner-1"), nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
