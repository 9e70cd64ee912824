package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/service"
)

type ProductRequest struct {
	Name        *string    `json:"name"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	Price       flexNumber `json:"price"`
	Quantity    flexNumber `json:"quantity"`
	IsListed    *bool      `json:"isListed"`
}

type productResponse struct {
	Product *model.Listing `json:"product"`
}

type productsResponse struct {
	Products []model.Listing `json:"products"`
}

type marketplaceResponse struct {
	Products []model.MarketplaceListing `json:"products"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	listings, err := h.catalog.ListOwn(r.Context(), accountID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: listings})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.catalog.CreateListing(r.Context(), accountID(r.Context()), service.CreateListingInput{
		Name:        deref(patch.Name),
		Category:    deref(patch.Category),
		Description: deref(patch.Description),
		Price:       patch.Price,
		Quantity:    patch.Quantity,
		IsListed:    patch.IsListed,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResponse{Product: listing})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.catalog.UpdateListing(r.Context(), accountID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: listing})
}

func (h *Handler) Marketplace(w http.ResponseWriter, r *http.Request) {
	listings, err := h.catalog.ListMarketplace(r.Context(), accountID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marketplaceResponse{Products: listings})
}

func (req ProductRequest) patch() (model.ListingPatch, error) {
	price, err := req.Price.Decimal("price")
	if err != nil {
		return model.ListingPatch{}, err
	}
	quantity, err := req.Quantity.Int("quantity")
	if err != nil {
		return model.ListingPatch{}, err
	}
	return model.ListingPatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       price,
		Quantity:    quantity,
		IsListed:    req.IsListed,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
