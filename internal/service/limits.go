package service

import (
	"math"

	"github.com/shopspring/decimal"

	"fsanano/glacierfarm/internal/apperr"
)

// Bounds of the storage columns: quantities and capacities are INTEGER,
// prices NUMERIC(12,2) and order totals NUMERIC(14,2).
const (
	maxCount    = math.MaxInt32
	moneyPlaces = 2
)

var (
	maxPrice = decimal.New(1, 10)
	maxTotal = decimal.New(1, 12)
)

// normalizePrice rounds p to cents and checks it fits a listing price.
func normalizePrice(p decimal.Decimal) (decimal.Decimal, error) {
	if p.IsNegative() {
		return p, apperr.Validation("price must not be negative")
	}
	p = p.Round(moneyPlaces)
	if p.GreaterThanOrEqual(maxPrice) {
		return p, apperr.Validation("price is too large")
	}
	return p, nil
}

// normalizeTotal rounds an order total to cents and checks it fits.
func normalizeTotal(t decimal.Decimal) (decimal.Decimal, error) {
	if t.IsNegative() {
		return t, apperr.Validation("total price must not be negative")
	}
	t = t.Round(moneyPlaces)
	if t.GreaterThanOrEqual(maxTotal) {
		return t, apperr.Validation("total price is too large")
	}
	return t, nil
}

func checkStock(q int) error {
	if q < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	if q > maxCount {
		return apperr.Validation("quantity is too large")
	}
	return nil
}
