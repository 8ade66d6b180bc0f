package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a wishlist could not be fetched. The HTTP layer
// maps each kind to a distinct status so callers can tell a private profile
// from an upstream outage.
type FailureKind string

const (
	FailurePrivate       FailureKind = "private"
	FailureLoginRequired FailureKind = "login_required"
	FailureNotFound      FailureKind = "not_found"
	FailureUpstream      FailureKind = "upstream"
)

// WishlistError is a typed wishlist fetch failure.
type WishlistError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *WishlistError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("wishlist fetch failed: %s (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("wishlist fetch failed: %s", e.Kind)
}

func (e *WishlistError) Unwrap() error {
	return e.Err
}

// NewWishlistError builds a typed fetch failure.
func NewWishlistError(kind FailureKind, statusCode int, err error) *WishlistError {
	return &WishlistError{Kind: kind, StatusCode: statusCode, Err: err}
}

// WishlistFailure extracts a WishlistError from an error chain.
func WishlistFailure(err error) (*WishlistError, bool) {
	var we *WishlistError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}
