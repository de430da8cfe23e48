package engine

import (
	"errors"
	"fmt"

	"invtrack/internal/store"
)

// Validation errors: rejected before any mutation is attempted. Safe to
// retry with corrected input.
var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidUnitPrice = errors.New("unit price cannot be negative")
)

// Business and reference errors, aliased from the storage gateway so
// errors.Is holds across layers.
var (
	// ErrInsufficientStock is the business-rule rejection for sales orders:
	// nothing was written, and repeating the call yields the same result.
	ErrInsufficientStock = store.ErrInsufficientStock

	// ErrUnknownProduct means the product reference does not exist.
	ErrUnknownProduct = store.ErrProductNotFound

	// ErrUnknownSupplier means the supplier reference does not exist.
	ErrUnknownSupplier = store.ErrSupplierNotFound
)

// StorageError marks a transaction that could not commit. The order was not
// created, so the whole operation is safe to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsRetryable reports whether the error is a commit failure that the caller
// may safely retry. Validation and business rejections are not retryable
// as-is.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
