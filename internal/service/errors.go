package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Caller errors are recoverable by resubmitting corrected input and map to
// 4xx responses. Anything else reaching a handler is treated as a system
// fault and reported generically.
var (
	// ErrUnauthenticated means no caller identity was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("admin role required")
	// ErrNotFound covers missing records, including transactions that exist
	// but belong to someone else. Non-owners must not learn the difference.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyItems rejects a submission with no line items.
	ErrEmptyItems = errors.New("items list must not be empty")
)

// LineError reports an invalid field on one submitted line.
type LineError struct {
	Index  int
	Field  string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid %s at index %d: %s", e.Field, e.Index, e.Reason)
}

// FieldError reports an invalid field on a non-line payload.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnknownItemsError names every submitted catalog id that does not resolve
// to an active waste item.
type UnknownItemsError struct {
	IDs []string
}

func (e *UnknownItemsError) Error() string {
	return "waste items not found or inactive: " + strings.Join(e.IDs, ", ")
}

// PriceMismatchError means the supplied price differs from the current
// catalog price by more than the accepted tolerance. It guards against
// clients submitting against a stale price list.
type PriceMismatchError struct {
	ItemName string
	Expected decimal.Decimal
	Supplied decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch for %s: expected %s, got %s",
		e.ItemName, e.Expected.StringFixed(2), e.Supplied.StringFixed(2))
}

// InvalidTransitionError reports an illegal status change, including
// attempts to leave a terminal status.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("cannot change status from %s to %s (allowed: %s)", e.From, e.To, allowed)
}

// DuplicateError reports a uniqueness violation in the catalog.
type DuplicateError struct {
	Entity string
	Name   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Name)
}

// IsCallerError reports whether err belongs to the caller-error taxonomy.
// Handlers use it to decide between a 4xx and a generic 500.
func IsCallerError(err error) bool {
	if errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmptyItems) {
		return true
	}

	var lineErr *LineError
	var fieldErr *FieldError
	var unknownErr *UnknownItemsError
	var priceErr *PriceMismatchError
	var transitionErr *InvalidTransitionError
	var dupErr *DuplicateError
	return errors.As(err, &lineErr) ||
		errors.As(err, &fieldErr) ||
		errors.As(err, &unknownErr) ||
		errors.As(err, &priceErr) ||
		errors.As(err, &transitionErr) ||
		errors.As(err, &dupErr)
}
