// Package postgres implements the store against PostgreSQL. Atomic units
// use database transactions; per-row serialization of the inventory counter
// relies on single-statement conditional UPDATEs and SELECT ... FOR UPDATE.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"event-booking/internal/store"
	"event-booking/pkg/logger"
)

type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
	l   logger.Logger
}

func New(db *sqlx.DB, l logger.Logger) *Store {
	return &Store{db: db, ext: db, l: l}
}

var _ store.Store = (*Store)(nil)

func (s *Store) inTx() bool {
	_, ok := s.ext.(*sqlx.Tx)
	return ok
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx() {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &Store{db: s.db, ext: tx, l: s.l}
	if err := fn(ctx, txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.l.Errorf(ctx, "postgres.Store.WithinTx rollback: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
