package db

import (
	"context"
	"fmt"

	"quickgrab-listing-feed/internal/domain/listing"

	"github.com/lib/pq"
)

// SellerRepository implements the seller repository interface
type SellerRepository struct {
	conn *Connection
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(conn *Connection) *SellerRepository {
	return &SellerRepository{conn: conn}
}

// Create creates a new seller
func (r *SellerRepository) Create(ctx context.Context, seller *listing.Seller) error {
	query := `
		INSERT INTO sellers (id, name, photo, verification_status, avg_rating, is_online, badges)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	badges := seller.Badges
	if badges == nil {
		badges = []string{}
	}

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		seller.ID,
		seller.Name,
		seller.Photo,
		seller.VerificationStatus,
		seller.AvgRating,
		seller.IsOnline,
		pq.Array(badges),
	)

	if err != nil {
		return fmt.Errorf("failed to create seller: %w", err)
	}

	return nil
}
