package web

import (
	"encoding/json"
	"net/http"

	"quickgrab-listing-feed/internal/domain/listing"
	"quickgrab-listing-feed/internal/ports/inbound"

	"github.com/rs/zerolog"
)

// emptyItemsBody is served whenever the feed cannot be produced
var emptyItemsBody = []byte(`{"items":[]}`)

// ItemsAPI serves the listing feed as JSON. It never fails visibly: store
// errors are logged and answered with an empty list.
type ItemsAPI struct {
	feedService inbound.FeedService
	logger      zerolog.Logger
}

type ItemsAPIParams struct {
	FeedService inbound.FeedService
	Logger      zerolog.Logger
}

type itemsResponse struct {
	Items []*listing.Item `json:"items"`
}

// NewItemsAPI creates a new items API handler
func NewItemsAPI(params ItemsAPIParams) *ItemsAPI {
	return &ItemsAPI{
		feedService: params.FeedService,
		logger:      params.Logger.With().Str("component", "items_api").Logger(),
	}
}

// ListItems handles GET /api/items. Query parameters are ignored.
func (api *ItemsAPI) ListItems(w http.ResponseWriter, r *http.Request) {
	body := emptyItemsBody

	items, err := api.feedService.RecentListings(r.Context())
	if err != nil {
		api.logger.Error().Err(err).Msg("Items fetch failed")
	} else {
		if items == nil {
			items = []*listing.Item{}
		}
		encoded, err := json.Marshal(itemsResponse{Items: items})
		if err != nil {
			api.logger.Error().Err(err).Msg("Failed to encode items")
		} else {
			body = encoded
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
