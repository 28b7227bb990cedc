package outbound

import (
	"context"

	"quickgrab-listing-feed/internal/domain/listing"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	// ListRecent retrieves the most recent listing.FeedSize items, newest first,
	// each with its seller projection
	ListRecent(ctx context.Context) ([]*listing.Item, error)

	// Create creates a new item; the seller must already exist
	Create(ctx context.Context, item *listing.Item) error
}

// SellerRepository defines the interface for seller data operations
type SellerRepository interface {
	// Create creates a new seller
	Create(ctx context.Context, seller *listing.Seller) error
}
