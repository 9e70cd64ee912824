package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Listing struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	IsListed    bool            `json:"isListed"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListingPatch is a partial update of a Listing. Nil fields are untouched.
type ListingPatch struct {
	Name        *string
	Category    *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
	IsListed    *bool
}

// MarketplaceListing is a Listing as seen by other accounts.
type MarketplaceListing struct {
	Listing
	Seller AccountSummary `json:"seller"`
}
