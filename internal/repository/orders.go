package repository

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	err := s.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO orders (id, buyer_id, listing_id, quantity, total_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING total_price, created_at`,
		order.ID, order.BuyerID, order.ListingID, order.Quantity, numericArg(order.TotalPrice), string(order.Status),
	).Scan(decimalDest{&order.TotalPrice}, &order.CreatedAt)
	return classify(err, errListingNotFound, "create order")
}

// ListOrdersForAccount returns purchases and sales of accountID, newest
// first, joined with buyer, listing and seller.
func (s *Store) ListOrdersForAccount(ctx context.Context, accountID string) ([]model.OrderView, error) {
	rows, err := s.getExecutor(ctx).Query(ctx,
		`SELECT o.id, o.buyer_id, o.listing_id, o.quantity, o.total_price, o.status, o.created_at,
		        b.id, b.farm_name, b.location,
		        l.id, l.name, l.category, l.price, l.owner_id, s.farm_name
		 FROM orders o
		 JOIN accounts b ON b.id = o.buyer_id
		 JOIN listings l ON l.id = o.listing_id
		 JOIN accounts s ON s.id = l.owner_id
		 WHERE o.buyer_id = $1 OR l.owner_id = $1
		 ORDER BY o.created_at DESC`, accountID)
	if err != nil {
		return nil, classify(err, errListingNotFound, "list orders")
	}
	defer rows.Close()

	out := []model.OrderView{}
	for rows.Next() {
		var v model.OrderView
		var status string
		err := rows.Scan(
			&v.ID, &v.BuyerID, &v.ListingID, &v.Quantity, decimalDest{&v.TotalPrice}, &status, &v.CreatedAt,
			&v.Buyer.ID, &v.Buyer.FarmName, &v.Buyer.Location,
			&v.Product.ID, &v.Product.Name, &v.Product.Category, decimalDest{&v.Product.Price}, &v.Product.OwnerID, &v.Product.OwnerFarmName,
		)
		if err != nil {
			return nil, classify(err, errListingNotFound, "scan order")
		}
		v.Status = model.OrderStatus(status)
		out = append(out, v)
	}
	return out, classify(rows.Err(), errListingNotFound, "list orders")
}
