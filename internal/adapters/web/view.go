package web

import (
	"strconv"

	"quickgrab-listing-feed/internal/domain/listing"
)

const (
	brandName      = "QuickGrab"
	currencySymbol = "₹"
)

type homeView struct {
	Brand string
	Cards []cardView
}

type cardView struct {
	Href           string
	Name           string
	HasPhoto       bool
	PhotoURL       string
	HasPriceRating bool
	PriceRating    string
	Price          string
	Condition      string
	Category       string
	Seller         sellerView
}

type sellerView struct {
	Name     string
	HasPhoto bool
	PhotoURL string
	Initial  string
	Verified bool
	Rating   string
	Online   bool
}

type errorView struct {
	Brand      string
	Status     int
	StatusText string
}

func newHomeView(items []*listing.Item) homeView {
	cards := make([]cardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, newCardView(item))
	}
	return homeView{Brand: brandName, Cards: cards}
}

func newCardView(item *listing.Item) cardView {
	card := cardView{
		Href:      "/item/" + item.ID.String(),
		Name:      item.Name,
		HasPhoto:  item.HasPhoto(),
		Price:     formatPrice(item.Price),
		Condition: string(item.Condition),
		Category:  string(item.Category),
		Seller: sellerView{
			Name:     item.Seller.Name,
			HasPhoto: item.Seller.HasPhoto(),
			Initial:  item.Seller.Initial(),
			Verified: item.Seller.IsVerified(),
			Rating:   formatRating(item.Seller.AvgRating),
			Online:   item.Seller.IsOnline,
		},
	}

	if card.HasPhoto {
		card.PhotoURL = *item.Photo
	}
	if item.HasPriceRating() {
		card.HasPriceRating = true
		card.PriceRating = *item.AIPriceRating
	}
	if card.Seller.HasPhoto {
		card.Seller.PhotoURL = *item.Seller.Photo
	}

	return card
}

// formatPrice prints the shortest exact decimal, so 1500 stays "₹1500" and 99.5 stays "₹99.5"
func formatPrice(price float64) string {
	return currencySymbol + strconv.FormatFloat(price, 'f', -1, 64)
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
