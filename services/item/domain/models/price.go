package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a Price carries.
const PriceScale = 2

// Price is a fixed-point currency amount rounded to two decimal places.
// It marshals to a bare JSON number with exactly two decimals (15.50).
// Compare with Equal or Cmp; == would compare big.Int pointers.
type Price struct {
	_ [0]func()
	d decimal.Decimal
}

// NewPrice rounds d half away from zero to PriceScale places.
func NewPrice(d decimal.Decimal) Price {
	return Price{d: d.Round(PriceScale)}
}

// ParsePrice parses a decimal string such as "15.5" or "1e2".
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	return NewPrice(d), nil
}

// MustParsePrice is ParsePrice for literals in tests and seed data.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Decimal() decimal.Decimal { return p.d }

func (p Price) IsPositive() bool { return p.d.IsPositive() }

// Float64 is used by the validator's custom type func; callers should not do math on it.
func (p Price) Float64() float64 {
	f, _ := p.d.Float64()
	return f
}

func (p Price) Cmp(o Price) int { return p.d.Cmp(o.d) }

func (p Price) Equal(o Price) bool { return p.d.Equal(o.d) }

func (p Price) String() string { return p.d.StringFixed(PriceScale) }

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (p *Price) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*p = NewPrice(d)
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (p *Price) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan price: %w", err)
	}
	*p = NewPrice(d)
	return nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}
