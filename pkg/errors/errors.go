package custom_error

import (
	"errors"
	"fmt"
)

// ErrConcurrentModification is returned when the conditional ledger update
// finds the part row changed between the snapshot read and the write.
var ErrConcurrentModification = errors.New("concurrent modification of part")

// ValidationError names the offending field of a rejected request. The
// operation is aborted before any mutation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError rejects an issue that would drive quantity negative.
type InsufficientStockError struct {
	PartID    int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %d: requested %d, available %d",
		e.PartID, e.Requested, e.Available)
}

// DuplicateVariantError rejects a second variant for the same
// (part, supplier) pair.
type DuplicateVariantError struct {
	PartID     int
	SupplierID int
}

func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("variant for part %d and supplier %d already exists", e.PartID, e.SupplierID)
}

// DuplicateIdentifierError surfaces a primary-key or unique-index collision.
type DuplicateIdentifierError struct {
	message string
	code    string // PostgreSQL error code, e.g. "23505"
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// ForeignKeyViolationError surfaces an insert or update referencing a row
// that does not exist.
type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code, e.g. "23503"
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// PersistenceError wraps a storage-layer failure inside what should have been
// an atomic movement. The transaction has been rolled back; no part update
// may survive without its paired audit record.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// WrapDBError maps a PostgreSQL error code onto the taxonomy.
func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &DuplicateIdentifierError{message: message, code: code}
	case "23503":
		return &ForeignKeyViolationError{message: message, code: code}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
