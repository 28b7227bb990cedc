package db

import (
	"quickgrab-listing-feed/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetItemRepository returns the item repository
func (f *RepositoryFactory) GetItemRepository() outbound.ItemRepository {
	return NewItemRepository(f.conn)
}

// GetSellerRepository returns the seller repository
func (f *RepositoryFactory) GetSellerRepository() outbound.SellerRepository {
	return NewSellerRepository(f.conn)
}
