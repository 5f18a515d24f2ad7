package domain

import (
	"sort"
	"strings"
)

// Derived views over a snapshot of an owner's items. All functions are
// pure: they copy before sorting and keep no state of their own, so the
// views are always recomputed from the current snapshot.

// Default thresholds for the expiring-soon view
const (
	DashboardExpiryThreshold = 5
	AlertExpiryThreshold     = 3
)

// SortMode selects an ordering for ListItems-style views
type SortMode string

const (
	SortByName   SortMode = "name"
	SortByExpiry SortMode = "expiry"
	SortByRecent SortMode = "recent"
)

// ExpiringSoon returns items with non-nil expiry days at or under the
// threshold, ordered ascending by expiry days with ties broken by name.
func ExpiringSoon(items []InventoryItem, threshold int) []InventoryItem {
	var out []InventoryItem
	for _, item := range items {
		if item.ExpiryDays != nil && *item.ExpiryDays <= threshold {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].ExpiryDays != *out[j].ExpiryDays {
			return *out[i].ExpiryDays < *out[j].ExpiryDays
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CategoryHistogram counts items per category, coalescing a missing
// category to "uncategorized" for display grouping.
func CategoryHistogram(items []InventoryItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "uncategorized"
		}
		counts[category]++
	}
	return counts
}

// RecentItems returns up to n items ordered by creation time, newest first
func RecentItems(items []InventoryItem, n int) []InventoryItem {
	out := make([]InventoryItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FilterByName returns items whose name contains the query, case-insensitively
func FilterByName(items []InventoryItem, query string) []InventoryItem {
	query = strings.ToLower(query)
	var out []InventoryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			out = append(out, item)
		}
	}
	return out
}

// SortItems returns a copy of items ordered by the given mode:
// name lexicographic ascending, expiry ascending with non-expiring items
// last, or most recently updated first.
func SortItems(items []InventoryItem, mode SortMode) []InventoryItem {
	out := make([]InventoryItem, len(items))
	copy(out, items)

	switch mode {
	case SortByExpiry:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].ExpiryDays, out[j].ExpiryDays
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
	case SortByRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}
	return out
}
