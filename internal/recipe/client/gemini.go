package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/invensync/invensync/internal/recipe/domain"
	"github.com/invensync/invensync/pkg/logger"
)

const defaultAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// GeminiClient calls the generative-language API to turn an ingredient
// list into a structured recipe
type GeminiClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewGeminiClient creates a recipe generator client
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithAPIURL overrides the API endpoint, used in tests
func (c *GeminiClient) WithAPIURL(url string) *GeminiClient {
	c.apiURL = url
	return c
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces a recipe from the assembled ingredient list. When
// the model reply cannot be parsed as a recipe, a deterministic basic
// recipe built from the input ingredients is returned instead of an
// error, so the caller always gets a structurally valid object.
func (c *GeminiClient) Generate(ctx context.Context, ingredients []domain.Ingredient, dietary []string, settings domain.Settings, profile domain.Profile) (*domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("no ingredients selected")
	}

	prompt := buildPrompt(ingredients, dietary, settings, profile)

	reqBody := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.4,
			MaxOutputTokens: 1024,
			TopP:            0.95,
			TopK:            40,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recipe generator request failed: %w", err)
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode generator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if genResp.Error != nil {
			return nil, fmt.Errorf("recipe generator error: %s", genResp.Error.Message)
		}
		return nil, fmt.Errorf("recipe generator returned status %d", resp.StatusCode)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("recipe generator returned no content")
	}

	text := genResp.Candidates[0].Content.Parts[0].Text

	recipe, err := parseRecipe(text)
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Msg("Could not parse generated recipe, using fallback")
		recipe = fallbackRecipe(ingredients, settings)
	}

	recipe.ID = fmt.Sprintf("recipe-%d", time.Now().UnixMilli())
	recipe.CreatedAt = time.Now()
	return recipe, nil
}

func buildPrompt(ingredients []domain.Ingredient, dietary []string, settings domain.Settings, profile domain.Profile) string {
	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		quantity := ing.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unit := ing.Unit
		if unit == "" {
			unit = "piece/unit"
		}
		parts = append(parts, fmt.Sprintf("%g %s of %s", quantity, unit, ing.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a recipe using these ingredients: %s.\n\n", strings.Join(parts, ", "))
	b.WriteString("Recipe specifications:\n")

	cuisine := settings.Cuisine
	if cuisine == "" || cuisine == "any" {
		cuisine = "flexible"
	}
	mealType := settings.MealType
	if mealType == "" || mealType == "any" {
		mealType = "any meal"
	}
	fmt.Fprintf(&b, "- Cuisine type: %s\n", cuisine)
	fmt.Fprintf(&b, "- Meal type: %s\n", mealType)
	fmt.Fprintf(&b, "- Difficulty level: %s\n", settings.Difficulty)
	fmt.Fprintf(&b, "- Number of servings: %d\n", settings.Servings)

	if len(dietary) > 0 {
		fmt.Fprintf(&b, "- Dietary restrictions: %s\n", strings.Join(dietary, ", "))
	}

	var personal []string
	if profile.Age > 0 {
		personal = append(personal, fmt.Sprintf("age: %d", profile.Age))
	}
	if profile.WeightKg > 0 {
		personal = append(personal, fmt.Sprintf("weight: %dkg", profile.WeightKg))
	}
	if profile.HeightCm > 0 {
		personal = append(personal, fmt.Sprintf("height: %dcm", profile.HeightCm))
	}
	if profile.HealthConditions != "" {
		personal = append(personal, "health conditions: "+profile.HealthConditions)
	}
	if len(personal) > 0 {
		fmt.Fprintf(&b, "- Personalize for someone with: %s\n", strings.Join(personal, ", "))
	}

	b.WriteString(`
Return ONLY a valid JSON object with this exact structure - no additional text, markdown, or explanations:
{
  "title": "Recipe Title",
  "description": "Brief description",
  "prepTime": 15,
  "cookTime": 20,
  "difficulty": "medium",
  "servings": 2,
  "ingredients": [
    {"name": "ingredient1", "quantity": 1, "unit": "cup"},
    {"name": "ingredient2", "quantity": 2, "unit": "tbsp"}
  ],
  "instructions": [
    "Step 1 instruction",
    "Step 2 instruction"
  ],
  "tags": ["tag1", "tag2"],
  "nutrition": {
    "calories": 300,
    "protein": 15,
    "carbs": 30,
    "fat": 10
  }
}`)

	return b.String()
}

// parseRecipe extracts the JSON object from the model text, tolerating
// markdown code fences and stray text around the object
func parseRecipe(text string) (*domain.Recipe, error) {
	jsonText := extractJSON(text)
	if jsonText == "" {
		return nil, fmt.Errorf("no JSON object in generator output")
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(jsonText), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe JSON: %w", err)
	}
	if recipe.Title == "" {
		return nil, fmt.Errorf("generated recipe has no title")
	}
	return &recipe, nil
}

func extractJSON(text string) string {
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

// fallbackRecipe builds a basic recipe from the input ingredients when
// the model output is unusable
func fallbackRecipe(ingredients []domain.Ingredient, settings domain.Settings) *domain.Recipe {
	out := make([]domain.Ingredient, len(ingredients))
	copy(out, ingredients)
	for i := range out {
		if out[i].Quantity == 0 {
			out[i].Quantity = 1
		}
		if out[i].Unit == "" {
			out[i].Unit = "piece"
		}
	}

	servings := settings.Servings
	if servings <= 0 {
		servings = 2
	}

	return &domain.Recipe{
		Title:       "Simple Recipe with " + ingredients[0].Name,
		Description: "A simple recipe created when the generated response could not be parsed.",
		PrepTime:    10,
		CookTime:    15,
		Difficulty:  settings.Difficulty,
		Servings:    servings,
		Ingredients: out,
		Instructions: []string{
			"Combine all ingredients in a bowl",
			"Cook until done",
			"Serve hot",
		},
		Tags: []string{"simple", "quick"},
		Nutrition: domain.Nutrition{
			Calories: 200,
			Protein:  10,
			Carbs:    20,
			Fat:      5,
		},
	}
}
