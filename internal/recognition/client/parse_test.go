package client

import (
	"errors"
	"testing"
	"time"
)

func TestParseProductInfo(t *testing.T) {
	now := time.Date(2026, time.May, 10, 14, 0, 0, 0, time.UTC)

	text := "name: Amul Gold Milk\nexpiry: 15-05-2026\ncategory: dairy\nquantity: 500\nunit: ml"
	product, err := ParseProductInfo(text, now)
	if err != nil {
		t.Fatalf("ParseProductInfo() error: %v", err)
	}

	if product.Name != "Amul Gold Milk" {
		t.Fatalf("name = %q", product.Name)
	}
	if product.Category != "dairy" {
		t.Fatalf("category = %q", product.Category)
	}
	if product.Quantity != 500 || product.Unit != "ml" {
		t.Fatalf("quantity = %g %s", product.Quantity, product.Unit)
	}
	if product.ExpiryDays == nil || *product.ExpiryDays != 4 {
		t.Fatalf("expiry days = %v, want 4", product.ExpiryDays)
	}
}

func TestParseProductInfoNoItem(t *testing.T) {
	for _, text := range []string{"no item", "No Item", "  no item  "} {
		if _, err := ParseProductInfo(text, time.Now()); !errors.Is(err, ErrNoItem) {
			t.Fatalf("ParseProductInfo(%q) err = %v, want ErrNoItem", text, err)
		}
	}
}

func TestParseProductInfoDefaults(t *testing.T) {
	product, err := ParseProductInfo("name: Mystery Snack\nexpiry: Expiration date not found", time.Now())
	if err != nil {
		t.Fatalf("ParseProductInfo() error: %v", err)
	}
	if product.Quantity != 1 {
		t.Fatalf("quantity default = %g", product.Quantity)
	}
	if product.Unit != "pcs" {
		t.Fatalf("unit default = %q", product.Unit)
	}
	if product.ExpiryDays != nil {
		t.Fatalf("unparseable expiry should stay nil, got %d", *product.ExpiryDays)
	}
}

func TestParseProductInfoExpiredProduct(t *testing.T) {
	now := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	product, err := ParseProductInfo("name: Old Yogurt\nexpiry: 01-05-2026", now)
	if err != nil {
		t.Fatalf("ParseProductInfo() error: %v", err)
	}
	if product.ExpiryDays == nil || *product.ExpiryDays != 0 {
		t.Fatalf("expired product days = %v, want 0", product.ExpiryDays)
	}
}

func TestParseProductInfoBadInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no name field", "category: dairy\nquantity: 2"},
		{"free text", "I could not read the label clearly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProductInfo(tt.text, time.Now()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseProductInfoIgnoresBadQuantity(t *testing.T) {
	product, err := ParseProductInfo("name: Juice\nquantity: about two\nunit: l", time.Now())
	if err != nil {
		t.Fatalf("ParseProductInfo() error: %v", err)
	}
	if product.Quantity != 1 {
		t.Fatalf("quantity = %g, want fallback 1", product.Quantity)
	}
	if product.Unit != "l" {
		t.Fatalf("unit = %q", product.Unit)
	}
}
