package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates an item with the same name already exists.
	ErrItemAlreadyExists = errors.New("item with this name already exists")

	// ErrItemReferenced indicates the item cannot be removed because other records point at it.
	ErrItemReferenced = errors.New("item is referenced by other records")

	// ErrInvalidItem indicates an item violates a domain invariant.
	ErrInvalidItem = errors.New("invalid item")

	// ErrRequiredField indicates the store rejected a write with a missing required column.
	ErrRequiredField = errors.New("required field is missing")

	// ErrValueOutOfRange indicates a numeric value does not fit the store's column.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrNothingToUpdate indicates a partial update carried no mutable fields.
	ErrNothingToUpdate = errors.New("no valid fields to update")

	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("item store unavailable")
)

// NotFoundError identifies the item that was looked up. It matches
// ErrItemNotFound under errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with ID %d not found", e.ID)
}

// Is reports whether target is ErrItemNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// NotFound returns a *NotFoundError for id.
func NotFound(id int64) error {
	return &NotFoundError{ID: id}
}
