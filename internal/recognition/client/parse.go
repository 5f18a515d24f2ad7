package client

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNoItem indicates the images did not show a packaged product
var ErrNoItem = errors.New("no packaged item recognized")

const expiryDateLayout = "02-01-2006"

// RecognizedProduct holds the best-effort fields extracted from product
// packaging. ExpiryDays is nil when no expiration date was found; the
// shape feeds item creation unchanged.
type RecognizedProduct struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Category   string  `json:"category"`
	ExpiryDays *int    `json:"expiry_days"`
}

// ParseProductInfo parses the recognizer's "key: value" line response.
// An expiry date in DD-MM-YYYY form is converted to the number of whole
// days remaining from now, clamped at zero for already-expired products.
func ParseProductInfo(text string, now time.Time) (*RecognizedProduct, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "no item") {
		return nil, ErrNoItem
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	name := fields["name"]
	if name == "" {
		return nil, errors.New("recognizer response has no product name")
	}

	product := &RecognizedProduct{
		Name:     name,
		Quantity: 1,
		Unit:     "pcs",
		Category: fields["category"],
	}

	if raw := fields["quantity"]; raw != "" {
		if q, err := strconv.ParseFloat(raw, 64); err == nil && q > 0 {
			product.Quantity = q
		}
	}
	if unit := fields["unit"]; unit != "" {
		product.Unit = unit
	}

	if raw := fields["expiry"]; raw != "" {
		if date, err := time.Parse(expiryDateLayout, raw); err == nil {
			days := daysUntil(now, date)
			product.ExpiryDays = &days
		}
	}

	return product, nil
}

// daysUntil counts whole days from now to the given date, never negative
func daysUntil(now, date time.Time) int {
	diff := date.UTC().Sub(now.UTC())
	if diff < 0 {
		return 0
	}
	return int(diff / (24 * time.Hour))
}
