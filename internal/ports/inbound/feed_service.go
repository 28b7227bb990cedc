package inbound

import (
	"context"

	"quickgrab-listing-feed/internal/domain/listing"
)

// FeedService defines the interface for reading the listing feed
type FeedService interface {
	// RecentListings returns the listing feed. Store failures are returned as
	// errors matching shared.ErrListingQuery; callers decide how to contain them.
	RecentListings(ctx context.Context) ([]*listing.Item, error)
}
