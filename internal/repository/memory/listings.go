package memory

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

func (s *Store) CreateListing(ctx context.Context, listing *model.Listing) error {
	defer s.lock(ctx)()

	now := s.now()
	listing.CreatedAt, listing.UpdatedAt = now, now
	s.listings[listing.ID] = *listing
	s.listingOrder = append(s.listingOrder, listing.ID)

	id := listing.ID
	onRollback(ctx, func() {
		delete(s.listings, id)
		s.listingOrder = s.listingOrder[:len(s.listingOrder)-1]
	})
	return nil
}

func (s *Store) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	defer s.rlock(ctx)()

	l, ok := s.listings[id]
	if !ok {
		return nil, errListingNotFound
	}
	return &l, nil
}

// ListListingsByOwner returns newest first.
func (s *Store) ListListingsByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	defer s.rlock(ctx)()

	out := []model.Listing{}
	for i := len(s.listingOrder) - 1; i >= 0; i-- {
		if l := s.listings[s.listingOrder[i]]; l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) UpdateListing(ctx context.Context, ownerID, id string, patch model.ListingPatch) (*model.Listing, error) {
	defer s.lock(ctx)()

	l, ok := s.listings[id]
	if !ok || l.OwnerID != ownerID {
		return nil, errListingNotFound
	}
	before := l

	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Category != nil {
		l.Category = *patch.Category
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Quantity != nil {
		l.Quantity = *patch.Quantity
	}
	if patch.IsListed != nil {
		l.IsListed = *patch.IsListed
	}
	l.UpdatedAt = s.now()
	s.listings[id] = l

	onRollback(ctx, func() { s.listings[id] = before })
	return &l, nil
}

func (s *Store) DecrementStock(ctx context.Context, listingID string, quantity int) (bool, error) {
	defer s.lock(ctx)()

	l, ok := s.listings[listingID]
	if !ok {
		return false, errListingNotFound
	}
	if l.Quantity < quantity {
		return false, nil
	}
	l.Quantity -= quantity
	l.UpdatedAt = s.now()
	s.listings[listingID] = l

	onRollback(ctx, func() {
		restored := s.listings[listingID]
		restored.Quantity += quantity
		s.listings[listingID] = restored
	})
	return true, nil
}

func (s *Store) ListMarketplace(ctx context.Context, excludeOwnerID string) ([]model.MarketplaceListing, error) {
	defer s.rlock(ctx)()

	out := []model.MarketplaceListing{}
	for i := len(s.listingOrder) - 1; i >= 0; i-- {
		l := s.listings[s.listingOrder[i]]
		if l.OwnerID == excludeOwnerID || l.Quantity <= 0 || !l.IsListed {
			continue
		}
		out = append(out, model.MarketplaceListing{
			Listing: l,
			Seller:  summary(s.accounts[l.OwnerID]),
		})
	}
	return out, nil
}
