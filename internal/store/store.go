// Package store is the MySQL persistence layer shared by every handler.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/aitools-golang/internal/apperr"
)

// Store wraps the primary connection pool and an optional read-only pool.
type Store struct {
	db *sql.DB
	// reader serves list queries that tolerate replica lag. Defaults to db.
	reader *sql.DB
	now    func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, reader: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithReader routes history and metric listings to a read-only pool.
func (s *Store) WithReader(reader *sql.DB) *Store {
	if reader != nil {
		s.reader = reader
	}
	return s
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn in a transaction and commits it if fn returns nil.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, op, fmt.Errorf("begin: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		var classified *apperr.Error
		if errors.As(err, &classified) {
			return err
		}
		return apperr.Wrap(apperr.KindPersistence, op, err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindPersistence, op, fmt.Errorf("commit: %w", err))
	}
	return nil
}
