package validation

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/itemcatalog/pkg/validator"
)

// Decimal inputs outside these orders of magnitude are never valid prices or
// stock levels. They are classified before any rounding so inputs like
// 1e1000000000 never get expanded.
const (
	maxMagnitude = 20
	minMagnitude = -30
)

// magnitude classifies d: +1 when |d| >= 10^maxMagnitude, -1 when d is
// non-zero and |d| < 10^minMagnitude, 0 otherwise.
func magnitude(d decimal.Decimal) int {
	coef := new(big.Int).Abs(d.Coefficient())
	if coef.Sign() == 0 {
		return 0
	}
	order := len(coef.String()) + int(d.Exponent())
	switch {
	case order > maxMagnitude:
		return 1
	case order < minMagnitude:
		return -1
	}
	return 0
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// decodeString accepts only a JSON string.
func decodeString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeNumber accepts a JSON number or a string holding one.
func decodeNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || isNull(raw) {
		return decimal.Decimal{}, false
	}
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		text = strings.TrimSpace(s)
	} else if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return decimal.Decimal{}, false
	}
	if text == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if d.IsZero() {
		d = decimal.Zero
	}
	return d, true
}

// clampInt converts an integral decimal to int64. Values outside [lo, hi]
// become lo-1 or hi+1 so range tags still fire.
func clampInt(d decimal.Decimal, lo, hi int64) int64 {
	if magnitude(d) > 0 {
		if d.IsNegative() {
			return lo - 1
		}
		return hi + 1
	}
	if d.LessThan(decimal.NewFromInt(lo)) {
		return lo - 1
	}
	if d.GreaterThan(decimal.NewFromInt(hi)) {
		return hi + 1
	}
	return d.IntPart()
}

// fieldErrors keeps per-field errors in a fixed field order.
type fieldErrors struct {
	order  []string
	prefix string
	byName map[string]string
}

func newFieldErrors(prefix string, order ...string) *fieldErrors {
	return &fieldErrors{order: order, prefix: prefix, byName: map[string]string{}}
}

// add records msg for field unless an earlier error for it exists.
func (e *fieldErrors) add(field, msg string) {
	if _, ok := e.byName[field]; !ok {
		e.byName[field] = msg
	}
}

// merge adds validator errors for fields that have no type error yet.
func (e *fieldErrors) merge(errs []pkgvalidator.FieldError) {
	for _, fe := range errs {
		e.add(fe.Field, fe.Message)
	}
}

func (e *fieldErrors) empty() bool { return len(e.byName) == 0 }

func (e *fieldErrors) list() []pkgvalidator.FieldError {
	out := make([]pkgvalidator.FieldError, 0, len(e.byName))
	seen := map[string]bool{}
	for _, f := range e.order {
		if msg, ok := e.byName[f]; ok {
			out = append(out, pkgvalidator.FieldError{Field: e.prefix + f, Message: msg})
			seen[f] = true
		}
	}
	for f, msg := range e.byName {
		if !seen[f] {
			out = append(out, pkgvalidator.FieldError{Field: e.prefix + f, Message: msg})
		}
	}
	return out
}
