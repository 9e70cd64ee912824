package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fsanano/glacierfarm/internal/apperr"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err as {"error": message}. Internal failures are logged
// with their cause; the caller only ever sees a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Error("request failed")
	}
	writeJSON(w, apperr.HTTPStatus(kind), errorResponse{Error: apperr.Message(err)})
}

// decodeJSON reads a single JSON value into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.TooLarge("request body too large")
	}
	return apperr.Validation("invalid request body")
}

// flexNumber accepts a JSON number or a numeric string. An empty string or
// null counts as absent.
type flexNumber struct {
	raw string
	set bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	n.raw, n.set = s, true
	return nil
}

func (n flexNumber) Int(field string) (*int, error) {
	if !n.set {
		return nil, nil
	}
	v, err := strconv.Atoi(n.raw)
	if err != nil {
		return nil, apperr.Validation(field + " must be an integer")
	}
	return &v, nil
}

func (n flexNumber) Float(field string) (*float64, error) {
	if !n.set {
		return nil, nil
	}
	v, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return nil, apperr.Validation(field + " must be a number")
	}
	return &v, nil
}

func (n flexNumber) Decimal(field string) (*decimal.Decimal, error) {
	if !n.set {
		return nil, nil
	}
	v, err := decimal.NewFromString(n.raw)
	if err != nil {
		return nil, apperr.Validation(field + " must be a number")
	}
	return &v, nil
}
