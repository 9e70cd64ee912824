package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
)

// EventPublisher receives committed orders. Implementations must not block
// for long; failures are logged and do not affect the order.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event model.OrderPlaced) error
}

// OrderRecorder observes placeOrder outcomes (metrics).
type OrderRecorder interface {
	RecordOrderPlaced(result string)
}

type OrderService struct {
	store     OrderStore
	publisher EventPublisher
	recorder  OrderRecorder
	log       *logrus.Logger

	// verifyTotal rejects a totalPrice that differs from quantity * price.
	verifyTotal bool
}

type OrderOption func(*OrderService)

func WithPublisher(p EventPublisher) OrderOption {
	return func(s *OrderService) { s.publisher = p }
}

func WithRecorder(r OrderRecorder) OrderOption {
	return func(s *OrderService) { s.recorder = r }
}

func WithVerifyTotal(v bool) OrderOption {
	return func(s *OrderService) { s.verifyTotal = v }
}

func NewOrderService(store OrderStore, log *logrus.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PlaceOrderInput struct {
	ListingID  string
	Quantity   int
	TotalPrice decimal.Decimal
}

// PlaceOrder decrements the listing's stock and records a pending order in
// one atomic unit. The decrement is conditional on enough stock remaining,
// so concurrent buyers cannot oversell.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID string, in PlaceOrderInput) (*model.Order, error) {
	order, sellerID, err := s.placeOrder(ctx, buyerID, in)
	s.record(err)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"account_id": buyerID,
		"listing_id": order.ListingID,
		"quantity":   order.Quantity,
	}).Info("order placed")

	if s.publisher != nil {
		event := model.OrderPlaced{
			OrderID:    order.ID,
			BuyerID:    order.BuyerID,
			SellerID:   sellerID,
			ListingID:  order.ListingID,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt,
		}
		if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
			s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
		}
	}

	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, buyerID string, in PlaceOrderInput) (*model.Order, string, error) {
	if in.ListingID == "" {
		return nil, "", apperr.Validation("product id is required")
	}
	if in.Quantity <= 0 {
		return nil, "", apperr.Validation("quantity must be a positive integer")
	}
	total, err := normalizeTotal(in.TotalPrice)
	if err != nil {
		return nil, "", err
	}

	order := &model.Order{
		ID:         uuid.NewString(),
		BuyerID:    buyerID,
		ListingID:  in.ListingID,
		Quantity:   in.Quantity,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
	}
	var sellerID string

	err = s.store.RunAtomic(ctx, func(ctx context.Context) error {
		listing, err := s.store.GetListing(ctx, in.ListingID)
		if err != nil {
			return err
		}
		sellerID = listing.OwnerID

		if s.verifyTotal {
			expected := listing.Price.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(moneyPlaces)
			if !expected.Equal(total) {
				return apperr.Validation("total price does not match quantity and price")
			}
		}

		// No listing holds more than maxCount.
		if in.Quantity > maxCount {
			return apperr.InsufficientStock("insufficient stock")
		}
		ok, err := s.store.DecrementStock(ctx, in.ListingID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InsufficientStock("insufficient stock")
		}

		return s.store.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, "", err
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	return order, sellerID, nil
}

// ListOrders returns the orders where accountID is the buyer together with
// those placed against its listings. An order on the caller's own listing is
// listed twice, once per direction, so it shows up in both views.
func (s *OrderService) ListOrders(ctx context.Context, accountID string) ([]model.OrderView, error) {
	orders, err := s.store.ListOrdersForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		if o.BuyerID == accountID {
			o.Direction = model.DirectionPurchase
			views = append(views, o)
		}
		if o.Product.OwnerID == accountID {
			o.Direction = model.DirectionSale
			views = append(views, o)
		}
	}
	return views, nil
}

func (s *OrderService) record(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.RecordOrderPlaced("ok")
	case errors.Is(err, apperr.ErrInsufficientStock):
		s.recorder.RecordOrderPlaced("insufficient_stock")
	case errors.Is(err, apperr.ErrNotFound):
		s.recorder.RecordOrderPlaced("not_found")
	case errors.Is(err, apperr.ErrValidation):
		s.recorder.RecordOrderPlaced("invalid")
	default:
		s.recorder.RecordOrderPlaced("error")
	}
}
