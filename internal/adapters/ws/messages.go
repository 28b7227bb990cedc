package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"quickgrab-listing-feed/internal/domain/shared"
	"quickgrab-listing-feed/internal/ports/outbound"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypePing MessageType = "ping"

	// Server to Client message types
	MessageTypeSubscribed  MessageType = "subscribed"
	MessageTypeFeedUpdated MessageType = "feed_updated"
	MessageTypeError       MessageType = "error"
	MessageTypePong        MessageType = "pong"
)

type ClientMessage struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	ItemID    *uuid.UUID  `json:"item_id,omitempty"`
	Error     *string     `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string) *ServerMessage {
	msg := NewServerMessage(MessageTypeError)
	msg.Error = &err
	return msg
}

// NewFeedUpdatedMessage converts a feed event into the message pushed to browsers
func NewFeedUpdatedMessage(event outbound.FeedEvent) *ServerMessage {
	msg := NewServerMessage(MessageTypeFeedUpdated)
	if event.ItemID != uuid.Nil {
		itemID := event.ItemID
		msg.ItemID = &itemID
	}
	if event.Timestamp != 0 {
		msg.Timestamp = event.Timestamp
	}
	return msg
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypePing:
		return nil
	default:
		return shared.ErrUnknownMessageType
	}
}
