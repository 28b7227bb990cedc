package main

import (
	"context"
	"fmt"
	"time"

	"quickgrab-listing-feed/internal/domain/listing"
	"quickgrab-listing-feed/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	sellerNames = []string{"Asha", "Ravi", "Meera", "Kiran", "Dev", "Nisha", "Arjun"}
	itemNames   = []string{"Road Bike", "Study Lamp", "Calculus Textbook", "Denim Jacket", "Cricket Bat", "Headphones", "Coffee Maker", "Yoga Mat"}
	conditions  = []listing.Condition{listing.ConditionNew, listing.ConditionLikeNew, listing.ConditionGood, listing.ConditionFair}
	categories  = []listing.Category{listing.CategorySports, listing.CategoryHome, listing.CategoryBooks, listing.CategoryFashion, listing.CategorySports, listing.CategoryElectronics, listing.CategoryHome, listing.CategoryOther}
	statuses    = []listing.VerificationStatus{listing.VerificationVerified, listing.VerificationPending, listing.VerificationUnverified}
	priceTags   = []string{"Great Deal", "Fair Price"}
)

type seederParams struct {
	SellerRepo outbound.SellerRepository
	ItemRepo   outbound.ItemRepository
	Notifier   outbound.FeedNotifier // nil when Redis is not configured
	Logger     zerolog.Logger
}

// seeder writes demo sellers and items
type seeder struct {
	sellerRepo outbound.SellerRepository
	itemRepo   outbound.ItemRepository
	notifier   outbound.FeedNotifier
	logger     zerolog.Logger
}

func newSeeder(params seederParams) *seeder {
	return &seeder{
		sellerRepo: params.SellerRepo,
		itemRepo:   params.ItemRepo,
		notifier:   params.Notifier,
		logger:     params.Logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed inserts sellerCount sellers and itemCount items. Items get strictly
// increasing creation times ending at now, so the last one is the newest.
func (s *seeder) Seed(ctx context.Context, sellerCount, itemCount int, now time.Time) ([]*listing.Item, error) {
	if sellerCount < 1 {
		return nil, fmt.Errorf("at least one seller is required, got %d", sellerCount)
	}

	sellers := make([]*listing.Seller, 0, sellerCount)
	for i := 0; i < sellerCount; i++ {
		seller := demoSeller(i)
		if err := s.sellerRepo.Create(ctx, seller); err != nil {
			return nil, err
		}
		sellers = append(sellers, seller)
	}
	s.logger.Info().Int("count", len(sellers)).Msg("Sellers created")

	items := make([]*listing.Item, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		createdAt := now.Add(-time.Duration(itemCount-1-i) * time.Minute)
		item := demoItem(i, *sellers[i%len(sellers)], createdAt)
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, err
		}
		items = append(items, item)

		if s.notifier != nil {
			event := outbound.FeedEvent{Type: outbound.EventTypeItemListed, ItemID: item.ID}
			if err := s.notifier.Publish(ctx, event); err != nil {
				s.logger.Warn().Err(err).Str("item_id", item.ID.String()).Msg("Failed to publish item listed event")
			}
		}
	}
	s.logger.Info().Int("count", len(items)).Msg("Items created")

	return items, nil
}

func demoSeller(i int) *listing.Seller {
	name := sellerNames[i%len(sellerNames)]
	if i >= len(sellerNames) {
		name = fmt.Sprintf("%s %d", name, i/len(sellerNames)+1)
	}

	seller := &listing.Seller{
		ID:                 uuid.New(),
		Name:               name,
		VerificationStatus: statuses[i%len(statuses)],
		AvgRating:          float64(30+(i*7)%21) / 10,
		IsOnline:           i%2 == 0,
		Badges:             []string{},
	}
	if i%3 == 0 {
		photo := fmt.Sprintf("https://picsum.photos/seed/seller-%d/96", i)
		seller.Photo = &photo
	}
	if seller.IsVerified() {
		seller.Badges = append(seller.Badges, "trusted")
	}
	return seller
}

func demoItem(i int, seller listing.Seller, createdAt time.Time) *listing.Item {
	item := &listing.Item{
		ID:        uuid.New(),
		Name:      itemNames[i%len(itemNames)],
		Price:     float64(250 + i*125),
		Condition: conditions[i%len(conditions)],
		Category:  categories[i%len(categories)],
		CreatedAt: createdAt,
		Seller:    seller,
	}
	if i%4 != 3 {
		photo := fmt.Sprintf("https://picsum.photos/seed/item-%d/480/360", i)
		item.Photo = &photo
	}
	if i%3 == 0 {
		tag := priceTags[(i/3)%len(priceTags)]
		item.AIPriceRating = &tag
	}
	return item
}
