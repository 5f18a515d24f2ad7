package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/invensync/invensync/internal/recipe/domain"
)

// RedisRecipeStore keeps each owner's saved recipes in a redis hash
// keyed by recipe id. Saving an already-saved id overwrites it.
type RedisRecipeStore struct {
	client *redis.Client
}

// NewRedisRecipeStore creates a new saved-recipe store
func NewRedisRecipeStore(client *redis.Client) *RedisRecipeStore {
	return &RedisRecipeStore{client: client}
}

func recipesKey(ownerID string) string {
	return "saved_recipes:" + ownerID
}

// Save upserts a recipe into the owner's saved list
func (s *RedisRecipeStore) Save(ctx context.Context, ownerID string, recipe *domain.Recipe) error {
	if recipe.ID == "" {
		return fmt.Errorf("recipe has no id")
	}

	payload, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := s.client.HSet(ctx, recipesKey(ownerID), recipe.ID, payload).Err(); err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// List returns the owner's saved recipes, newest first
func (s *RedisRecipeStore) List(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	entries, err := s.client.HGetAll(ctx, recipesKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(entries))
	for _, raw := range entries {
		var recipe domain.Recipe
		if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
			continue
		}
		recipes = append(recipes, recipe)
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
	})
	return recipes, nil
}

// IsSaved reports whether the owner has saved the given recipe id
func (s *RedisRecipeStore) IsSaved(ctx context.Context, ownerID, recipeID string) (bool, error) {
	saved, err := s.client.HExists(ctx, recipesKey(ownerID), recipeID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check saved recipe: %w", err)
	}
	return saved, nil
}

// Delete removes a saved recipe by id
func (s *RedisRecipeStore) Delete(ctx context.Context, ownerID, recipeID string) error {
	if err := s.client.HDel(ctx, recipesKey(ownerID), recipeID).Err(); err != nil {
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	return nil
}
