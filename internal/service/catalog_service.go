package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
)

type CatalogService struct {
	listings ListingStore
	log      *logrus.Logger
}

func NewCatalogService(listings ListingStore, log *logrus.Logger) *CatalogService {
	return &CatalogService{listings: listings, log: log}
}

type CreateListingInput struct {
	Name        string `validate:"required"`
	Category    string `validate:"required"`
	Description string
	Price       *decimal.Decimal `validate:"required"`
	Quantity    *int             `validate:"required"`
	IsListed    *bool
}

func (s *CatalogService) CreateListing(ctx context.Context, ownerID string, in CreateListingInput) (*model.Listing, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)

	if err := validateStruct(in, nil); err != nil {
		return nil, err
	}
	price, err := normalizePrice(*in.Price)
	if err != nil {
		return nil, err
	}
	if err := checkStock(*in.Quantity); err != nil {
		return nil, err
	}

	listing := &model.Listing{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Quantity:    *in.Quantity,
		IsListed:    in.IsListed != nil && *in.IsListed,
	}
	if err := s.listings.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"account_id": ownerID, "listing_id": listing.ID}).Debug("listing created")
	return listing, nil
}

func (s *CatalogService) ListOwn(ctx context.Context, ownerID string) ([]model.Listing, error) {
	return s.listings.ListListingsByOwner(ctx, ownerID)
}

// UpdateListing applies the fields present in patch. A listing that does
// not exist and one owned by someone else are reported the same way.
func (s *CatalogService) UpdateListing(ctx context.Context, ownerID, listingID string, patch model.ListingPatch) (*model.Listing, error) {
	if patch.Name != nil {
		if *patch.Name = strings.TrimSpace(*patch.Name); *patch.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
	}
	if patch.Category != nil {
		if *patch.Category = strings.TrimSpace(*patch.Category); *patch.Category == "" {
			return nil, apperr.Validation("category cannot be empty")
		}
	}
	if patch.Price != nil {
		price, err := normalizePrice(*patch.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = &price
	}
	if patch.Quantity != nil {
		if err := checkStock(*patch.Quantity); err != nil {
			return nil, err
		}
	}

	listing, err := s.listings.UpdateListing(ctx, ownerID, listingID, patch)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// ListMarketplace returns in-stock, listed products of every other account.
func (s *CatalogService) ListMarketplace(ctx context.Context, accountID string) ([]model.MarketplaceListing, error) {
	return s.listings.ListMarketplace(ctx, accountID)
}
