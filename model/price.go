package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Price is an exact USD amount.
// It keeps the scale it was quoted with, so "12.50" is not printed as "12.5".
type Price struct {
	decimal.Decimal
}

// NewPrice returns Price for d
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// String returns the amount with its quoted number of decimal places
func (p Price) String() string {
	if exp := p.Exponent(); exp < 0 {
		return p.StringFixed(-exp)
	}
	return p.Decimal.String()
}

// MarshalJSON implements json.Marshaler
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// MarshalText implements encoding.TextMarshaler
func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
