// Package postgres implements the storage boundary on PostgreSQL via pgx.
// Uniqueness of the (from, to, polarity) edge triple and of the technique's
// node reference is enforced by unique indexes, so concurrent
// check-then-write races resolve inside the database; cascade deletes run in
// a single transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matslogic/matslogic/pkg/graph"
)

// Store is a PostgreSQL-backed graph.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ graph.Store = (*Store)(nil)

// New creates a store from a database URL, verifies connectivity, and runs
// the schema migration.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// uniqueViolation is the Postgres error code for a unique index violation.
const uniqueViolation = "23505"

// mapError translates pgx errors to the domain error kinds.
func mapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, graph.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %d: %w", entity, id, graph.ErrConflict)
	}
	return err
}
