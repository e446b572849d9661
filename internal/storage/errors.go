package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID is returned for identifiers that cannot name a document file.
	ErrInvalidID = errors.New("invalid entity id")
)

// StoreError wraps a failed write or delete with the collection and document involved.
type StoreError struct {
	// Op is the operation that failed (e.g. "Save", "Delete").
	Op string

	// Collection is the entity collection (directory name).
	Collection string

	// ID is the document identifier.
	ID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s %s/%s failed: %v", e.Op, e.Collection, e.ID, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}
