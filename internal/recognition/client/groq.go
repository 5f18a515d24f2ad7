package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	visionModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

const systemPrompt = `You are a product information assistant. Analyze both front and back images of the product.
Extract and return ONLY the following information in exact format:
name: [product name]
expiry: [date in DD-MM-YYYY format or 'Expiration date not found']
category: [one of: dairy, bakery, snacks, beverages, fruits, vegetables, meat, seafood, grains, condiments, personal care]
quantity: [Extract the numerical value from text labeled as 'Net Quantity', 'Net Weight', 'Net Volume', 'Net Content', or similar. If not found, predict based on product type and return '1']
unit: [Extract the unit from text labeled as 'Net Quantity', 'Net Weight', 'Net Volume', 'Net Content', or similar. If not found, predict based on product type and return 'pcs']

Notes for extraction:
- For expiry: If only manufacturing date and shelf life (in days) are available, calculate the expiry date. Otherwise, return 'Expiration date not found'.
- For category: If not explicitly visible, predict based on the product name.
- For quantity: Search for any text containing weight/volume measurements, even if not explicitly labeled as 'Net Quantity'. Include both the numerical value and unit.
- If the product is not a packaged item, return ONLY 'no item' with no other information. Do not include name, expiry, category, or quantity.

Return ONLY the requested information in the exact format specified above with no additional text or explanations.`

// GroqClient calls a vision chat-completions API to extract product
// information from packaging photos
type GroqClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewGroqClient creates a product recognizer client
func NewGroqClient(apiKey string) *GroqClient {
	return &GroqClient{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithAPIURL overrides the API endpoint, used in tests
func (c *GroqClient) WithAPIURL(url string) *GroqClient {
	c.apiURL = url
	return c
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func imagePart(label, imageBase64 string) []contentPart {
	url := &struct {
		URL string `json:"url"`
	}{URL: "data:image/jpeg;base64," + imageBase64}
	return []contentPart{
		{Type: "text", Text: label},
		{Type: "image_url", ImageURL: url},
	}
}

// RecognizeProduct sends the product photos for analysis and parses the
// response into item fields. backImageBase64 may be empty.
func (c *GroqClient) RecognizeProduct(ctx context.Context, frontImageBase64, backImageBase64 string) (*RecognizedProduct, error) {
	if frontImageBase64 == "" {
		return nil, fmt.Errorf("front image is required")
	}

	parts := imagePart("Front image of product:", frontImageBase64)
	if backImageBase64 != "" {
		parts = append(parts, imagePart("Back image of product:", backImageBase64)...)
	}

	reqBody := chatRequest{
		Model: visionModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
		Temperature: 0.5,
		MaxTokens:   500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognizer request failed: %w", err)
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode recognizer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return nil, fmt.Errorf("recognizer error: %s", chatResp.Error.Message)
		}
		return nil, fmt.Errorf("recognizer returned status %d", resp.StatusCode)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("recognizer returned no choices")
	}

	return ParseProductInfo(chatResp.Choices[0].Message.Content, time.Now())
}
