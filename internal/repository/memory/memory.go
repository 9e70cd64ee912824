// Package memory is an in-process implementation of the service store,
// used for tests and for running without PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/service"
)

var _ service.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	accounts     map[string]model.Account
	listings     map[string]model.Listing
	listingOrder []string
	orders       []model.Order
	units        []model.StorageUnit

	now func() time.Time
}

func New() *Store {
	return &Store{
		accounts: make(map[string]model.Account),
		listings: make(map[string]model.Listing),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

type txState struct {
	undo []func()
}

// RunAtomic holds the store's write lock for the whole of fn. If fn fails,
// every mutation it made is undone in reverse order before the lock is
// released, so no other caller can observe a partial unit.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

// lock takes the write lock unless ctx is inside RunAtomic, which already
// holds it.
func (s *Store) lock(ctx context.Context) func() {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func onRollback(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(txKey{}).(*txState); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func summary(a model.Account) model.AccountSummary {
	return model.AccountSummary{ID: a.ID, FarmName: a.FarmName, Location: a.Location}
}

var (
	errAccountNotFound = apperr.NotFound("user not found")
	errListingNotFound = apperr.NotFound("product not found")
)
