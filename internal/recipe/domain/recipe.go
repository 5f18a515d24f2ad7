package domain

import "time"

// Ingredient is one entry of a recipe input or output
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Nutrition holds per-serving nutrition estimates
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Recipe is the structured result returned by the recipe generator
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	Difficulty   string       `json:"difficulty"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Tags         []string     `json:"tags"`
	Nutrition    Nutrition    `json:"nutrition"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Settings controls recipe generation
type Settings struct {
	Cuisine    string `json:"cuisine"`
	MealType   string `json:"meal_type"`
	Difficulty string `json:"difficulty"`
	Servings   int    `json:"servings"`
}

// Profile carries optional personalization data for generation
type Profile struct {
	Age              int    `json:"age,omitempty"`
	WeightKg         int    `json:"weight_kg,omitempty"`
	HeightCm         int    `json:"height_cm,omitempty"`
	HealthConditions string `json:"health_conditions,omitempty"`
}
