package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/logging"
	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/repository"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, *repository.Store) {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	store := repository.NewStore(pool)
	require.NoError(t, store.Migrate(ctx, logging.Discard()))

	// Order matters due to FK
	_, err = pool.Exec(ctx, "TRUNCATE TABLE orders, storage_units, listings, accounts CASCADE")
	require.NoError(t, err)

	return pool, store
}

func seedAccounts(t *testing.T, store *repository.Store) (seller, buyer *model.Account) {
	ctx := context.Background()
	seller = &model.Account{ID: "seller", Email: "a@farm.test", Username: "a", FarmName: "A Farm", Location: "North", Phone: "1", PasswordHash: "x"}
	buyer = &model.Account{ID: "buyer", Email: "b@farm.test", Username: "b", FarmName: "B Farm", Location: "South", Phone: "2", PasswordHash: "x"}
	require.NoError(t, store.CreateAccount(ctx, seller))
	require.NoError(t, store.CreateAccount(ctx, buyer))
	return seller, buyer
}

func TestAccounts_UniqueEmail(t *testing.T) {
	_, store := setupTestDB(t)
	seedAccounts(t, store)

	err := store.CreateAccount(context.Background(), &model.Account{ID: "dup", Email: "a@farm.test", Username: "zz", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = store.GetAccountByEmail(context.Background(), "nobody@farm.test")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListings_PatchKeepsUnsetColumns(t *testing.T) {
	_, store := setupTestDB(t)
	seller, buyer := seedAccounts(t, store)
	ctx := context.Background()

	listing := &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.RequireFromString("2.50"), Quantity: 40}
	require.NoError(t, store.CreateListing(ctx, listing))

	listed := true
	got, err := store.UpdateListing(ctx, seller.ID, listing.ID, model.ListingPatch{IsListed: &listed})
	require.NoError(t, err)
	assert.True(t, got.IsListed)
	assert.Equal(t, 40, got.Quantity)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got.Price))

	_, err = store.UpdateListing(ctx, buyer.ID, listing.ID, model.ListingPatch{IsListed: &listed})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	market, err := store.ListMarketplace(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, market, 1)
	assert.Equal(t, "A Farm", market[0].Seller.FarmName)

	market, err = store.ListMarketplace(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, market)
}

func TestDecrementStock_Concurrency(t *testing.T) {
	pool, store := setupTestDB(t)
	seller, buyer := seedAccounts(t, store)
	ctx := context.Background()

	initialStock := 10
	require.NoError(t, store.CreateListing(ctx, &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.NewFromInt(1), Quantity: initialStock, IsListed: true}))

	concurrentRequests := 50
	results := make(chan bool, concurrentRequests)
	var g errgroup.Group
	for i := 0; i < concurrentRequests; i++ {
		g.Go(func() error {
			var ok bool
			err := store.RunAtomic(ctx, func(ctx context.Context) error {
				var err error
				ok, err = store.DecrementStock(ctx, "l1", 1)
				if err != nil || !ok {
					return err
				}
				return store.CreateOrder(ctx, &model.Order{
					ID:      uuid.NewString(),
					BuyerID: buyer.ID, ListingID: "l1", Quantity: 1, TotalPrice: decimal.NewFromInt(1), Status: model.OrderStatusPending,
				})
			})
			results <- err == nil && ok
			return err
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, initialStock, succeeded)

	var stock, orders int
	require.NoError(t, pool.QueryRow(ctx, "SELECT quantity FROM listings WHERE id = 'l1'").Scan(&stock))
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE listing_id = 'l1'").Scan(&orders))
	assert.Equal(t, 0, stock)
	assert.Equal(t, initialStock, orders)
}

func TestRunAtomic_RollsBack(t *testing.T) {
	pool, store := setupTestDB(t)
	seller, _ := seedAccounts(t, store)
	ctx := context.Background()

	require.NoError(t, store.CreateListing(ctx, &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.NewFromInt(1), Quantity: 5}))

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, func(ctx context.Context) error {
		ok, err := store.DecrementStock(ctx, "l1", 3)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var stock int
	require.NoError(t, pool.QueryRow(ctx, "SELECT quantity FROM listings WHERE id = 'l1'").Scan(&stock))
	assert.Equal(t, 5, stock)
}

func TestListOrdersForAccount_JoinsBothSides(t *testing.T) {
	_, store := setupTestDB(t)
	seller, buyer := seedAccounts(t, store)
	ctx := context.Background()

	require.NoError(t, store.CreateListing(ctx, &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.NewFromInt(10), Quantity: 100, IsListed: true}))
	order := &model.Order{ID: "o1", BuyerID: buyer.ID, ListingID: "l1", Quantity: 20, TotalPrice: decimal.NewFromInt(200), Status: model.OrderStatusPending}
	require.NoError(t, store.CreateOrder(ctx, order))
	assert.False(t, order.CreatedAt.IsZero())

	for _, id := range []string{seller.ID, buyer.ID} {
		views, err := store.ListOrdersForAccount(ctx, id)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "B Farm", views[0].Buyer.FarmName)
		assert.Equal(t, "A Farm", views[0].Product.OwnerFarmName)
		assert.True(t, decimal.NewFromInt(200).Equal(views[0].TotalPrice))
	}

	err := store.CreateOrder(ctx, &model.Order{ID: "o2", BuyerID: buyer.ID, ListingID: "missing", Quantity: 1, Status: model.OrderStatusPending})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateOrder_ReturnsStoredTotal(t *testing.T) {
	_, store := setupTestDB(t)
	seller, buyer := seedAccounts(t, store)
	ctx := context.Background()

	require.NoError(t, store.CreateListing(ctx, &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.NewFromInt(10), Quantity: 5, IsListed: true}))
	order := &model.Order{ID: "o1", BuyerID: buyer.ID, ListingID: "l1", Quantity: 1, TotalPrice: decimal.RequireFromString("10.005"), Status: model.OrderStatusPending}
	require.NoError(t, store.CreateOrder(ctx, order))
	assert.Equal(t, "10.01", order.TotalPrice.StringFixed(2))

	views, err := store.ListOrdersForAccount(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, order.TotalPrice.Equal(views[0].TotalPrice))
}

func TestCreateListing_OutOfRangeIsValidation(t *testing.T) {
	_, store := setupTestDB(t)
	seller, _ := seedAccounts(t, store)
	ctx := context.Background()

	err := store.CreateListing(ctx, &model.Listing{ID: "l1", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.New(1, 11), Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = store.CreateListing(ctx, &model.Listing{ID: "l2", OwnerID: seller.ID, Name: "Kale", Category: "Vegetables", Price: decimal.NewFromInt(1), Quantity: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStorageUnits(t *testing.T) {
	_, store := setupTestDB(t)
	seller, buyer := seedAccounts(t, store)
	ctx := context.Background()

	unit := &model.StorageUnit{ID: "u1", OwnerID: seller.ID, Name: "Cold room", Capacity: 500, Temperature: -2.5, Status: model.StorageUnitStatusActive}
	require.NoError(t, store.CreateStorageUnit(ctx, unit))

	units, err := store.ListStorageUnitsByOwner(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, -2.5, units[0].Temperature)

	units, err = store.ListStorageUnitsByOwner(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, units)
}
