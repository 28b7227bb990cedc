package outbound

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of feed event being broadcasted
type EventType string

const (
	EventTypeItemListed EventType = "item.listed"
)

// FeedEvent announces a change to the listing feed
type FeedEvent struct {
	Type      EventType `json:"type"`
	ItemID    uuid.UUID `json:"item_id"`
	Timestamp int64     `json:"timestamp"`
}

// FeedNotifier defines the interface for broadcasting feed events
type FeedNotifier interface {
	// Subscribe delivers every subsequent feed event to eventChan until the
	// client unsubscribes
	Subscribe(ctx context.Context, clientID string, eventChan chan FeedEvent) error

	// Unsubscribe stops delivering events to the client
	Unsubscribe(ctx context.Context, clientID string) error

	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, event FeedEvent) error
}
