package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/logging"
	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/repository/memory"
	"fsanano/glacierfarm/internal/service"
)

func ptr[T any](v T) *T { return &v }

func newCatalog(t *testing.T) (*service.CatalogService, *memory.Store) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.CreateAccount(ctx, &model.Account{ID: "a", Email: "a@farm.test", Username: "a", FarmName: "A Farm", Location: "North"}))
	require.NoError(t, store.CreateAccount(ctx, &model.Account{ID: "b", Email: "b@farm.test", Username: "b", FarmName: "B Farm", Location: "South"}))
	return service.NewCatalogService(store, logging.Discard()), store
}

func TestCreateListing(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	listing, err := svc.CreateListing(ctx, "a", service.CreateListingInput{
		Name:     "Tomatoes",
		Category: "Vegetables",
		Price:    ptr(decimal.RequireFromString("3.25")),
		Quantity: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "a", listing.OwnerID)
	assert.False(t, listing.IsListed)
	assert.Equal(t, 0, listing.Quantity)

	own, err := svc.ListOwn(ctx, "a")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, listing.ID, own[0].ID)

	own, err = svc.ListOwn(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestCreateListing_Validation(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   service.CreateListingInput
	}{
		{"missing name", service.CreateListingInput{Category: "Fruit", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)}},
		{"missing price", service.CreateListingInput{Name: "Apples", Category: "Fruit", Quantity: ptr(1)}},
		{"missing quantity", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.NewFromInt(1))}},
		{"negative price", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.NewFromInt(-1)), Quantity: ptr(1)}},
		{"negative quantity", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(-1)}},
		{"quantity beyond column", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(3_000_000_000)}},
		{"price beyond column", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.New(1, 11)), Quantity: ptr(1)}},
		{"price rounds past column", service.CreateListingInput{Name: "Apples", Category: "Fruit", Price: ptr(decimal.RequireFromString("9999999999.999")), Quantity: ptr(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateListing(ctx, "a", tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestUpdateListing(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	listing, err := svc.CreateListing(ctx, "a", service.CreateListingInput{
		Name: "Milk", Category: "Dairy", Price: ptr(decimal.NewFromInt(2)), Quantity: ptr(30),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateListing(ctx, "a", listing.ID, model.ListingPatch{IsListed: ptr(true), Price: ptr(decimal.RequireFromString("2.10"))})
	require.NoError(t, err)
	assert.True(t, updated.IsListed)
	assert.Equal(t, "Milk", updated.Name)
	assert.Equal(t, 30, updated.Quantity)
	assert.True(t, decimal.RequireFromString("2.1").Equal(updated.Price))

	_, err = svc.UpdateListing(ctx, "b", listing.ID, model.ListingPatch{IsListed: ptr(false)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateListing(ctx, "a", "missing", model.ListingPatch{IsListed: ptr(false)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateListing(ctx, "a", listing.ID, model.ListingPatch{Quantity: ptr(-3)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateListing(ctx, "a", listing.ID, model.ListingPatch{Quantity: ptr(3_000_000_000)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	rounded, err := svc.UpdateListing(ctx, "a", listing.ID, model.ListingPatch{Price: ptr(decimal.RequireFromString("1.999"))})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(rounded.Price))

	_, err = svc.UpdateListing(ctx, "a", listing.ID, model.ListingPatch{Name: ptr("  ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListMarketplace(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	create := func(owner, name string, qty int, listed bool) {
		_, err := svc.CreateListing(ctx, owner, service.CreateListingInput{
			Name: name, Category: "Misc", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(qty), IsListed: ptr(listed),
		})
		require.NoError(t, err)
	}
	create("a", "Listed", 5, true)
	create("a", "Unlisted", 5, false)
	create("a", "Sold out", 0, true)
	create("b", "Own", 5, true)

	items, err := svc.ListMarketplace(ctx, "b")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Listed", items[0].Name)
	assert.Equal(t, "A Farm", items[0].Seller.FarmName)
	assert.Equal(t, "North", items[0].Seller.Location)

	items, err = svc.ListMarketplace(ctx, "a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Own", items[0].Name)
}
