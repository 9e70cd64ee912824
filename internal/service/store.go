package service

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

// Transactor runs fn as one atomic unit: every store call made with the ctx
// passed to fn commits together or not at all.
type Transactor interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateAccountProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error)
	UpdateAccountPassword(ctx context.Context, id, passwordHash string) error
}

type ListingStore interface {
	CreateListing(ctx context.Context, listing *model.Listing) error
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	ListListingsByOwner(ctx context.Context, ownerID string) ([]model.Listing, error)
	// UpdateListing applies patch to the listing only if it is owned by
	// ownerID, as a single conditional write.
	UpdateListing(ctx context.Context, ownerID, id string, patch model.ListingPatch) (*model.Listing, error)
	ListMarketplace(ctx context.Context, excludeOwnerID string) ([]model.MarketplaceListing, error)
}

type OrderStore interface {
	Transactor
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	// DecrementStock subtracts quantity from the listing only if enough
	// stock remains. It reports false, without writing, otherwise.
	DecrementStock(ctx context.Context, listingID string, quantity int) (bool, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	ListOrdersForAccount(ctx context.Context, accountID string) ([]model.OrderView, error)
}

type StorageUnitStore interface {
	CreateStorageUnit(ctx context.Context, unit *model.StorageUnit) error
	ListStorageUnitsByOwner(ctx context.Context, ownerID string) ([]model.StorageUnit, error)
}

// Store is everything a backend must provide.
type Store interface {
	Transactor
	AccountStore
	ListingStore
	OrderStore
	StorageUnitStore
}
