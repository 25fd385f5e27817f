package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for item lifecycle changes.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// Topics lists every topic the item context publishes.
var Topics = []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}

// ItemChangedEvent is published in the same transaction as an item write.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     int64     `json:"item_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      string    `json:"price"`
	Stock      int       `json:"stock"`
	Fields     []string  `json:"fields,omitempty"` // updated fields; empty for create and delete
	OccurredAt time.Time `json:"occurred_at"`
}
