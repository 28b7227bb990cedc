package db

import (
	"context"
	"database/sql"
	"fmt"

	"quickgrab-listing-feed/internal/domain/listing"

	"github.com/lib/pq"
)

// ItemRepository implements the item repository interface
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// listRecentQuery selects the feed window with the seller projection in one round-trip
const listRecentQuery = `
	SELECT i.id, i.name, i.price, i.photo, i.condition, i.ai_price_rating, i.category, i.created_at,
	       s.id, s.name, s.photo, s.verification_status, s.avg_rating, s.is_online, s.badges
	FROM items i
	INNER JOIN sellers s ON s.id = i.seller_id
	ORDER BY i.created_at DESC
	LIMIT $1
`

// ListRecent retrieves the most recent items, newest first
func (r *ItemRepository) ListRecent(ctx context.Context) ([]*listing.Item, error) {
	rows, err := r.conn.GetDB().QueryContext(ctx, listRecentQuery, listing.FeedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent items: %w", err)
	}
	defer rows.Close()

	items := make([]*listing.Item, 0, listing.FeedSize)
	for rows.Next() {
		item, err := scanFeedRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func scanFeedRow(rows *sql.Rows) (*listing.Item, error) {
	var (
		item          listing.Item
		photo         sql.NullString
		aiPriceRating sql.NullString
		sellerPhoto   sql.NullString
		badges        pq.StringArray
	)

	err := rows.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&photo,
		&item.Condition,
		&aiPriceRating,
		&item.Category,
		&item.CreatedAt,
		&item.Seller.ID,
		&item.Seller.Name,
		&sellerPhoto,
		&item.Seller.VerificationStatus,
		&item.Seller.AvgRating,
		&item.Seller.IsOnline,
		&badges,
	)
	if err != nil {
		return nil, err
	}

	item.Photo = nullableString(photo)
	item.AIPriceRating = nullableString(aiPriceRating)
	item.Seller.Photo = nullableString(sellerPhoto)
	item.Seller.Badges = []string(badges)
	if item.Seller.Badges == nil {
		item.Seller.Badges = []string{}
	}

	return &item, nil
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, item *listing.Item) error {
	query := `
		INSERT INTO items (id, seller_id, name, price, photo, condition, category, ai_price_rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		item.ID,
		item.Seller.ID,
		item.Name,
		item.Price,
		item.Photo,
		item.Condition,
		item.Category,
		item.AIPriceRating,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
