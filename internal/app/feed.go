package app

import (
	"context"
	"fmt"

	"quickgrab-listing-feed/internal/domain/listing"
	"quickgrab-listing-feed/internal/domain/shared"
	"quickgrab-listing-feed/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// FeedService implements the listing feed use case shared by the page and the API
type FeedService struct {
	itemRepo outbound.ItemRepository
	logger   zerolog.Logger
}

type FeedServiceParams struct {
	ItemRepo outbound.ItemRepository
	Logger   zerolog.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(params FeedServiceParams) *FeedService {
	return &FeedService{
		itemRepo: params.ItemRepo,
		logger:   params.Logger.With().Str("component", "feed_service").Logger(),
	}
}

// RecentListings returns the most recent items with their sellers
func (service *FeedService) RecentListings(ctx context.Context) ([]*listing.Item, error) {
	items, err := service.itemRepo.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrListingQuery, err)
	}

	service.logger.Debug().Int("count", len(items)).Msg("Listing feed retrieved")
	return items, nil
}
