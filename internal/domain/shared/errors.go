package shared

import "errors"

// Domain-specific errors
var (
	// Listing errors
	ErrListingQuery = errors.New("listing query failed")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")

	// Rendering errors
	ErrTemplateNotFound = errors.New("template not found")

	// WebSocket errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrUnknownMessageType  = errors.New("unknown message type")
	ErrClientStopped       = errors.New("client is stopped")
	ErrClientSendTimeout   = errors.New("client send channel is full")

	// Notification errors
	ErrNotifierClosed = errors.New("feed notifier is closed")
)
