package domain

import (
	"time"
)

// InventoryItem represents a single stored item owned by a user.
// ExpiryDays is nil for items that do not expire; such items are
// excluded from decay and from expiry alerts.
type InventoryItem struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	OwnerID    string    `json:"owner_id" gorm:"not null;index;size:36"`
	Name       string    `json:"name" gorm:"not null"`
	Quantity   float64   `json:"quantity" gorm:"not null;default:0"`
	Unit       string    `json:"unit" gorm:"default:'pcs'"`
	Category   string    `json:"category"`
	ExpiryDays *int      `json:"expiry_days"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// Expires reports whether the item participates in expiry decay
func (i *InventoryItem) Expires() bool {
	return i.ExpiryDays != nil
}

// ItemRepository defines the contract for inventory item data access.
// It mirrors the narrow surface of a document store: equality filter on
// owner, less-than-or-equal filter on expiry days, and per-document CRUD.
type ItemRepository interface {
	Create(item *InventoryItem) error
	FindByID(id string) (*InventoryItem, error)
	FindByOwner(ownerID string) ([]InventoryItem, error)
	FindExpiring(ownerID string, threshold int) ([]InventoryItem, error)
	FindByCategory(ownerID, category string) ([]InventoryItem, error)
	Update(item *InventoryItem) error
	Delete(id string) error
	Count(ownerID string) (int64, error)
}
