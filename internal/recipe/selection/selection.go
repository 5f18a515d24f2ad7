package selection

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	invdomain "github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/recipe/domain"
)

// Source tags where a selection entry came from
type Source string

const (
	SourceInventory Source = "inventory"
	SourceCustom    Source = "custom"
)

const customIDPrefix = "custom-"

// Entry is one member of the recipe-ingredient working set
type Entry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Source   Source  `json:"source"`
}

// IsCustom reports whether the entry is a free-text custom ingredient
func (e Entry) IsCustom() bool {
	return e.Source == SourceCustom
}

// Selection is the in-memory working set of ingredients being assembled
// for recipe generation. It is never persisted and never writes back to
// the item store; adjusting a quantity here has no effect on inventory.
// Entries keep insertion order and ids are unique within the set.
type Selection struct {
	mu      sync.Mutex
	order   []string
	entries map[string]Entry
}

// New creates an empty selection
func New() *Selection {
	return &Selection{entries: make(map[string]Entry)}
}

// Toggle adds the inventory item to the set with quantity 1, or removes
// it if already present. It returns true when the item was added.
func (s *Selection) Toggle(item invdomain.InventoryItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[item.ID]; ok {
		s.removeLocked(item.ID)
		return false
	}

	unit := item.Unit
	if unit == "" {
		unit = "pcs"
	}
	s.entries[item.ID] = Entry{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: 1,
		Unit:     unit,
		Source:   SourceInventory,
	}
	s.order = append(s.order, item.ID)
	return true
}

// SetQuantity adjusts an entry's quantity. Values at or below zero are
// ignored rather than treated as an error.
func (s *Selection) SetQuantity(id string, quantity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return
	}
	entry, ok := s.entries[id]
	if !ok {
		return
	}
	entry.Quantity = quantity
	s.entries[id] = entry
}

// AddCustom appends a free-text ingredient. The synthetic id carries a
// prefix no store-assigned id can have, so collisions with inventory
// entries are structurally impossible.
func (s *Selection) AddCustom(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, &invdomain.ValidationError{Field: "name", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:       customIDPrefix + uuid.NewString(),
		Name:     name,
		Quantity: 1,
		Unit:     "item",
		Source:   SourceCustom,
	}
	s.entries[entry.ID] = entry
	s.order = append(s.order, entry.ID)
	return entry, nil
}

// Remove drops an entry, inventory-sourced or custom, by its identifier
func (s *Selection) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Selection) removeLocked(id string) {
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Entries returns the working set in insertion order
func (s *Selection) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Ingredients returns the normalized list consumed by the recipe
// generator, in insertion order.
func (s *Selection) Ingredients() []domain.Ingredient {
	entries := s.Entries()
	out := make([]domain.Ingredient, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Ingredient{
			Name:     e.Name,
			Quantity: e.Quantity,
			Unit:     e.Unit,
		})
	}
	return out
}

// Clear empties the working set
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = make(map[string]Entry)
}

// Manager scopes one selection per owner session. It is an explicit
// structure handed to the delivery layer rather than package-level state.
type Manager struct {
	mu         sync.Mutex
	selections map[string]*Selection
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{selections: make(map[string]*Selection)}
}

// Get returns the owner's selection, creating it on first use
func (m *Manager) Get(ownerID string) *Selection {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel, ok := m.selections[ownerID]
	if !ok {
		sel = New()
		m.selections[ownerID] = sel
	}
	return sel
}

// Clear drops the owner's selection
func (m *Manager) Clear(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selections, ownerID)
}
