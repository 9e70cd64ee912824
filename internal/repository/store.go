package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/service"
)

var _ service.Store = (*Store)(nil)

// Store is the PostgreSQL backend.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// RunAtomic executes fn within a transaction. Store methods called with the
// ctx handed to fn run on that transaction.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to begin transaction: %w", err))
	}
	// Rollback is a no-op once Commit has succeeded.
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

type txKey struct{}

func (s *Store) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.db
}

// PgxExecutor is an interface that matches both *pgxpool.Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation        = "23505"
	foreignKeyViolation    = "23503"
	checkViolation         = "23514"
	numericValueOutOfRange = "22003"
)

// classify maps driver errors onto apperr kinds. notFound is returned for
// pgx.ErrNoRows and for writes referencing a missing row.
func classify(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Conflict("user already exists")
		case foreignKeyViolation:
			return notFound
		case checkViolation, numericValueOutOfRange:
			return apperr.Validation("value out of range")
		}
	}
	return apperr.Internal(fmt.Errorf("failed to %s: %w", op, err))
}

var (
	errAccountNotFound = apperr.NotFound("user not found")
	errListingNotFound = apperr.NotFound("product not found")
)
