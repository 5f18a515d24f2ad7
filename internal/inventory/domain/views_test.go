package domain

import (
	"reflect"
	"testing"
	"time"
)

func intp(v int) *int { return &v }

func testItems() []InventoryItem {
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	return []InventoryItem{
		{ID: "a", Name: "Milk", Category: "dairy", ExpiryDays: intp(2), CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Name: "Bread", Category: "bakery", ExpiryDays: intp(4), CreatedAt: base.Add(1 * time.Hour), UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "c", Name: "Salt", Category: "", ExpiryDays: nil, CreatedAt: base, UpdatedAt: base},
		{ID: "d", Name: "Apples", Category: "produce", ExpiryDays: intp(2), CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(4 * time.Hour)},
		{ID: "e", Name: "Yogurt", Category: "dairy", ExpiryDays: intp(9), CreatedAt: base.Add(4 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(items []InventoryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestExpiringSoon(t *testing.T) {
	got := ExpiringSoon(testItems(), DashboardExpiryThreshold)

	// days ascending, name tiebreak: Apples(2), Milk(2), Bread(4).
	want := []string{"d", "a", "b"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ExpiringSoon order = %v, want %v", ids(got), want)
	}

	for _, item := range got {
		if item.ExpiryDays == nil {
			t.Fatalf("non-expiring item %q included", item.ID)
		}
	}
}

func TestExpiringSoonThresholdBoundary(t *testing.T) {
	got := ExpiringSoon(testItems(), 2)
	want := []string{"d", "a"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ExpiringSoon(2) = %v, want %v", ids(got), want)
	}
}

func TestCategoryHistogram(t *testing.T) {
	got := CategoryHistogram(testItems())
	want := map[string]int{
		"dairy":         2,
		"bakery":        1,
		"produce":       1,
		"uncategorized": 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CategoryHistogram = %v, want %v", got, want)
	}
}

func TestRecentItems(t *testing.T) {
	got := RecentItems(testItems(), 3)
	want := []string{"e", "a", "d"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("RecentItems = %v, want %v", ids(got), want)
	}

	all := RecentItems(testItems(), 10)
	if len(all) != 5 {
		t.Fatalf("RecentItems with large n returned %d items", len(all))
	}
}

func TestFilterByName(t *testing.T) {
	got := FilterByName(testItems(), "mILk")
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("FilterByName = %v", ids(got))
	}

	if got := FilterByName(testItems(), ""); len(got) != 5 {
		t.Fatalf("empty query should match everything, got %d", len(got))
	}
}

func TestSortItems(t *testing.T) {
	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"by name", SortByName, []string{"d", "b", "a", "c", "e"}},
		{"by expiry nil last", SortByExpiry, []string{"a", "d", "b", "e", "c"}},
		{"by recent update", SortByRecent, []string{"b", "d", "a", "e", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := testItems()
			got := SortItems(original, tt.mode)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("SortItems(%s) = %v, want %v", tt.mode, ids(got), tt.want)
			}
			// the input slice must not be reordered
			if !reflect.DeepEqual(ids(original), []string{"a", "b", "c", "d", "e"}) {
				t.Fatalf("SortItems mutated its input: %v", ids(original))
			}
		})
	}
}
