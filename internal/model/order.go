package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID         string          `json:"id"`
	BuyerID    string          `json:"buyerId"`
	ListingID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderDirection string

const (
	DirectionPurchase OrderDirection = "purchase"
	DirectionSale     OrderDirection = "sale"
)

// ListingSummary is the listing side of an order join.
type ListingSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	OwnerID       string          `json:"ownerId"`
	OwnerFarmName string          `json:"ownerFarmName"`
}

// OrderView is an Order joined with its buyer and listing, plus the
// caller's side of the transaction.
type OrderView struct {
	Order
	Buyer     AccountSummary `json:"buyer"`
	Product   ListingSummary `json:"product"`
	Direction OrderDirection `json:"direction"`
}

// OrderPlaced is emitted after an order commits.
type OrderPlaced struct {
	OrderID    string          `json:"orderId"`
	BuyerID    string          `json:"buyerId"`
	SellerID   string          `json:"sellerId"`
	ListingID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}
