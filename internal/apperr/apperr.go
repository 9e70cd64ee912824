// Package apperr defines the error kinds surfaced to API callers and their
// HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindRateLimited
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindRateLimited:
		return "rate_limited"
	case KindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to the caller;
// Err is the underlying cause and is never sent over the wire.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind, so that
// errors.Is(err, apperr.ErrNotFound) matches every NotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrTooLarge          = &Error{Kind: KindTooLarge}
)

func Validation(msg string) error        { return &Error{Kind: KindValidation, Message: msg} }
func Unauthenticated(msg string) error   { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) error         { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error          { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error          { return &Error{Kind: KindConflict, Message: msg} }
func InsufficientStock(msg string) error { return &Error{Kind: KindInsufficientStock, Message: msg} }
func RateLimited(msg string) error       { return &Error{Kind: KindRateLimited, Message: msg} }
func TooLarge(msg string) error          { return &Error{Kind: KindTooLarge, Message: msg} }

// Internal wraps an unexpected failure.
func Internal(err error) error { return &Error{Kind: KindInternal, Err: err} }

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err. Internal errors never
// expose their cause.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInsufficientStock:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
