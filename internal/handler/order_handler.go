package handler

import (
	"net/http"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/service"
)

type PlaceOrderRequest struct {
	ProductID  string     `json:"productId"`
	Quantity   flexNumber `json:"quantity"`
	TotalPrice flexNumber `json:"totalPrice"`
}

type orderResponse struct {
	Order *model.Order `json:"order"`
}

type ordersResponse struct {
	Orders []model.OrderView `json:"orders"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	quantity, err := req.Quantity.Int("quantity")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total, err := req.TotalPrice.Decimal("totalPrice")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ProductID == "" || quantity == nil || total == nil {
		h.writeError(w, r, apperr.Validation("productId, quantity and totalPrice are required"))
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), accountID(r.Context()), service.PlaceOrderInput{
		ListingID:  req.ProductID,
		Quantity:   *quantity,
		TotalPrice: *total,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Order: order})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), accountID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}
