// Package types provides common type aliases and utilities.
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// CoercePrice converts an arbitrary JSON-decoded value into Money.
// Non-numeric, missing, or negative inputs resolve to zero so downstream
// totals stay well-defined numbers. Never returns NaN and never fails.
func CoercePrice(v any) Money {
	var d decimal.Decimal
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = val
	case float64:
		d = decimal.NewFromFloat(val)
	case float32:
		d = decimal.NewFromFloat32(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case json.Number:
		parsed, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Quantity is a decimal quantity. Tender line quantities may be fractional
// (e.g. 0.5 of a unit of measure); decimal keeps totals exact.
type Quantity = decimal.Decimal

// NewQuantityFromString parses a quantity string.
func NewQuantityFromString(s string) (Quantity, error) {
	return decimal.NewFromString(s)
}

// MustQuantity parses a quantity string, panics on error. Tests only.
func MustQuantity(s string) Quantity {
	return MustMoney(s)
}
