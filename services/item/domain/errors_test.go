package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	for name, err := range map[string]error{
		"ErrItemNotFound":      ErrItemNotFound,
		"ErrItemAlreadyExists": ErrItemAlreadyExists,
		"ErrItemReferenced":    ErrItemReferenced,
		"ErrInvalidItem":       ErrInvalidItem,
		"ErrRequiredField":     ErrRequiredField,
		"ErrValueOutOfRange":   ErrValueOutOfRange,
		"ErrNothingToUpdate":   ErrNothingToUpdate,
		"ErrStoreUnavailable":  ErrStoreUnavailable,
	} {
		if err == nil {
			t.Fatalf("%s must not be nil", name)
		}
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFound(42)

	if err.Error() != "item with ID 42 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatal("NotFoundError must match ErrItemNotFound")
	}
	if errors.Is(err, ErrItemAlreadyExists) {
		t.Fatal("NotFoundError must not match ErrItemAlreadyExists")
	}

	var nf *NotFoundError
	if !errors.As(fmt.Errorf("get item: %w", err), &nf) {
		t.Fatal("errors.As must unwrap to *NotFoundError")
	}
	if nf.ID != 42 {
		t.Fatalf("expected ID 42, got %d", nf.ID)
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrItemNotFound)
	if !errors.Is(wrapped, ErrItemNotFound) {
		t.Fatal("errors.Is must match wrapped ErrItemNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidItem, errors.New("price must be positive"))
	if !errors.Is(wrapped2, ErrInvalidItem) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidItem")
	}
}
