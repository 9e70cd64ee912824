package memory

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	defer s.lock(ctx)()

	if _, ok := s.listings[order.ListingID]; !ok {
		return errListingNotFound
	}
	if _, ok := s.accounts[order.BuyerID]; !ok {
		return errAccountNotFound
	}

	order.CreatedAt = s.now()
	s.orders = append(s.orders, *order)

	onRollback(ctx, func() { s.orders = s.orders[:len(s.orders)-1] })
	return nil
}

// ListOrdersForAccount returns newest first, joined with buyer and listing.
func (s *Store) ListOrdersForAccount(ctx context.Context, accountID string) ([]model.OrderView, error) {
	defer s.rlock(ctx)()

	out := []model.OrderView{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		l := s.listings[o.ListingID]
		if o.BuyerID != accountID && l.OwnerID != accountID {
			continue
		}
		out = append(out, model.OrderView{
			Order: o,
			Buyer: summary(s.accounts[o.BuyerID]),
			Product: model.ListingSummary{
				ID:            l.ID,
				Name:          l.Name,
				Category:      l.Category,
				Price:         l.Price,
				OwnerID:       l.OwnerID,
				OwnerFarmName: s.accounts[l.OwnerID].FarmName,
			},
		})
	}
	return out, nil
}
