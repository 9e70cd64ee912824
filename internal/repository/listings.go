package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"fsanano/glacierfarm/internal/model"
)

const listingColumns = `l.id, l.owner_id, l.name, l.category, l.description, l.price, l.quantity, l.is_listed, l.created_at, l.updated_at`

func scanListing(row interface{ Scan(...any) error }, extra ...any) (*model.Listing, error) {
	var l model.Listing
	dest := append([]any{&l.ID, &l.OwnerID, &l.Name, &l.Category, &l.Description, decimalDest{&l.Price}, &l.Quantity, &l.IsListed, &l.CreatedAt, &l.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) CreateListing(ctx context.Context, listing *model.Listing) error {
	err := s.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO listings (id, owner_id, name, category, description, price, quantity, is_listed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		listing.ID, listing.OwnerID, listing.Name, listing.Category, listing.Description, numericArg(listing.Price), listing.Quantity, listing.IsListed,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)
	return classify(err, errListingNotFound, "create listing")
}

func (s *Store) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	l, err := scanListing(s.getExecutor(ctx).QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings l WHERE l.id = $1`, id))
	if err != nil {
		return nil, classify(err, errListingNotFound, "get listing")
	}
	return l, nil
}

func (s *Store) ListListingsByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	rows, err := s.getExecutor(ctx).Query(ctx,
		`SELECT `+listingColumns+` FROM listings l WHERE l.owner_id = $1 ORDER BY l.created_at DESC`, ownerID)
	if err != nil {
		return nil, classify(err, errListingNotFound, "list listings")
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, classify(err, errListingNotFound, "scan listing")
		}
		out = append(out, *l)
	}
	return out, classify(rows.Err(), errListingNotFound, "list listings")
}

// UpdateListing writes only the patched columns, and only when the row is
// owned by ownerID. Columns absent from patch keep their current value, so a
// concurrent stock decrement is never overwritten by a stale read.
func (s *Store) UpdateListing(ctx context.Context, ownerID, id string, patch model.ListingPatch) (*model.Listing, error) {
	l, err := scanListing(s.getExecutor(ctx).QueryRow(ctx,
		`UPDATE listings l SET
			name        = COALESCE($3::text, l.name),
			category    = COALESCE($4::text, l.category),
			description = COALESCE($5::text, l.description),
			price       = COALESCE($6::numeric, l.price),
			quantity    = COALESCE($7::integer, l.quantity),
			is_listed   = COALESCE($8::boolean, l.is_listed),
			updated_at  = now()
		 WHERE l.id = $1 AND l.owner_id = $2
		 RETURNING `+listingColumns,
		id, ownerID, patch.Name, patch.Category, patch.Description, nullableNumericArg(patch.Price), patch.Quantity, patch.IsListed))
	if err != nil {
		return nil, classify(err, errListingNotFound, "update listing")
	}
	return l, nil
}

// DecrementStock is a single conditional write; the row lock taken by the
// UPDATE makes concurrent decrements re-check the predicate.
func (s *Store) DecrementStock(ctx context.Context, listingID string, quantity int) (bool, error) {
	tag, err := s.getExecutor(ctx).Exec(ctx,
		`UPDATE listings SET quantity = quantity - $2, updated_at = now()
		 WHERE id = $1 AND quantity >= $2`,
		listingID, quantity)
	if err != nil {
		return false, classify(err, errListingNotFound, "update listing stock")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListMarketplace(ctx context.Context, excludeOwnerID string) ([]model.MarketplaceListing, error) {
	rows, err := s.getExecutor(ctx).Query(ctx,
		`SELECT `+listingColumns+`, a.id, a.farm_name, a.location
		 FROM listings l
		 JOIN accounts a ON a.id = l.owner_id
		 WHERE l.owner_id <> $1 AND l.quantity > 0 AND l.is_listed
		 ORDER BY l.created_at DESC`, excludeOwnerID)
	if err != nil {
		return nil, classify(err, errListingNotFound, "list marketplace")
	}
	defer rows.Close()

	return collectMarketplace(rows)
}

func collectMarketplace(rows pgx.Rows) ([]model.MarketplaceListing, error) {
	out := []model.MarketplaceListing{}
	for rows.Next() {
		var seller model.AccountSummary
		l, err := scanListing(rows, &seller.ID, &seller.FarmName, &seller.Location)
		if err != nil {
			return nil, classify(err, errListingNotFound, "scan marketplace listing")
		}
		out = append(out, model.MarketplaceListing{Listing: *l, Seller: seller})
	}
	return out, classify(rows.Err(), errListingNotFound, "list marketplace")
}
