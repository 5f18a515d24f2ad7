package kafka

import "time"

// ItemExpiringEvent is emitted when a decay pass moves an item to or
// below the proactive alert threshold
type ItemExpiringEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ItemID     string    `json:"item_id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	ExpiryDays int       `json:"expiry_days"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeItemExpiring = "inventory.item.expiring"
)

// Kafka topics
const (
	TopicItemExpiring = "inventory-item-expiring"
)
