package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/domain/shared"

	_ "github.com/lib/pq"
)

// openDB is swapped in tests
var openDB = sql.Open

var (
	sharedMu   sync.Mutex
	sharedConn *Connection
)

// Connection represents a database connection
type Connection struct {
	db *sql.DB
}

// NewConnection creates a new database connection
func NewConnection(config *config.Config) (*Connection, error) {
	db, err := openDB("postgres", config.Database.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database connection: %w", shared.ErrDatabaseConnection, err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", shared.ErrDatabaseConnection, err)
	}

	if config.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.Database.MaxOpenConns)
	}
	if config.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.Database.MaxIdleConns)
	}

	return &Connection{db: db}, nil
}

// Shared returns the process-wide connection, creating it on first use.
// Later calls, including those made while reloading the handler stack,
// return the same handle. A failed attempt is not cached.
func Shared(config *config.Config) (*Connection, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedConn != nil {
		return sharedConn, nil
	}

	conn, err := NewConnection(config)
	if err != nil {
		return nil, err
	}

	sharedConn = conn
	return sharedConn, nil
}

// CloseShared closes the process-wide connection. The next Shared call opens a new one.
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedConn == nil {
		return nil
	}

	err := sharedConn.Close()
	sharedConn = nil
	return err
}

// GetDB returns the underlying sql.DB instance
func (client *Connection) GetDB() *sql.DB {
	return client.db
}

// Close closes the database connection
func (client *Connection) Close() error {
	return client.db.Close()
}

// BeginTransaction starts a new database transaction
func (client *Connection) BeginTransaction(ctx context.Context) (*sql.Tx, error) {
	tx, err := client.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", shared.ErrDatabaseTransaction, err)
	}
	return tx, nil
}

// ExecuteTransaction executes a function within a transaction
func (client *Connection) ExecuteTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := client.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", shared.ErrDatabaseTransaction, err)
	}

	return nil
}
