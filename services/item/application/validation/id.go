package validation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/itemcatalog/pkg/validator"
)

// ValidateID parses a path id. Only a base-10 integer above zero is accepted.
func ValidateID(raw string) (int64, error) {
	fail := func(msg string) (int64, error) {
		return 0, pkgvalidator.NewValidationError(MsgInvalidID, pkgvalidator.FieldError{Field: "id", Message: msg})
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return fail("ID is required")
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return fail("ID must be a positive number")
			}
			return fail("ID must be less than or equal to 9223372036854775807")
		}
		if d, derr := decimal.NewFromString(s); derr == nil && magnitude(d) == 0 && !d.IsInteger() {
			return fail("ID must be an integer")
		}
		return fail("ID must be a number")
	}
	if id <= 0 {
		return fail("ID must be a positive number")
	}
	return id, nil
}
