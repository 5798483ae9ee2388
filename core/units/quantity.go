package units

import (
	"strings"

	"github.com/shopspring/decimal"

	"galvanokit/internal/errors"
)

// Quantity is a scalar value tagged with a physical unit. The zero value
// carries no unit and reports IsZero; every constructed Quantity has one.
type Quantity struct {
	value decimal.Decimal
	unit  Unit
}

// New creates a quantity from a decimal value and a unit
func New(value decimal.Decimal, u Unit) Quantity {
	return Quantity{value: value, unit: u}
}

// NewFromFloat creates a quantity from a float value and a unit
func NewFromFloat(value float64, u Unit) Quantity {
	return Quantity{value: decimal.NewFromFloat(value), unit: u}
}

// Parse reads a quantity of the form "22.53 mg". The unit is mandatory:
// a bare number is rejected so unitless physical input cannot slip in.
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	switch len(fields) {
	case 0:
		return Quantity{}, errors.Unit("empty quantity")
	case 1:
		if _, err := decimal.NewFromString(fields[0]); err == nil {
			return Quantity{}, errors.Unitf("quantity %q has no unit", s)
		}
		return Quantity{}, errors.Unitf("malformed quantity %q", s)
	case 2:
		value, err := decimal.NewFromString(fields[0])
		if err != nil {
			return Quantity{}, errors.Unitf("malformed quantity value %q", fields[0])
		}
		unit, err := ParseUnit(fields[1])
		if err != nil {
			return Quantity{}, err
		}
		return Quantity{value: value, unit: unit}, nil
	default:
		return Quantity{}, errors.Unitf("malformed quantity %q", s)
	}
}

// MustParse is Parse for fixed literals; it panics on error
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Value returns the scalar in the quantity's own unit
func (q Quantity) Value() decimal.Decimal {
	return q.value
}

// Unit returns the quantity's unit
func (q Quantity) Unit() Unit {
	return q.unit
}

// IsZero reports whether the quantity is the unitless zero value
func (q Quantity) IsZero() bool {
	return q.unit.IsZero() && q.value.IsZero()
}

// Base returns the scalar converted to base units
func (q Quantity) Base() decimal.Decimal {
	return q.value.Mul(q.unit.Factor)
}

// Float64 returns the scalar in the quantity's own unit as a float
func (q Quantity) Float64() float64 {
	return q.value.InexactFloat64()
}

// Convert re-expresses the quantity in another unit of the same dimension
func (q Quantity) Convert(u Unit) (Quantity, error) {
	if q.unit.Dim != u.Dim {
		return Quantity{}, errors.Unitf("cannot convert %s to %s: incompatible dimensions", q.unit, u)
	}
	return Quantity{value: q.Base().Div(u.Factor), unit: u}, nil
}

// MustConvert is Convert for conversions known to be dimension-safe
func (q Quantity) MustConvert(u Unit) Quantity {
	out, err := q.Convert(u)
	if err != nil {
		panic(err)
	}
	return out
}

// Mul multiplies two quantities, composing their dimensions. The result
// is expressed in base units.
func (q Quantity) Mul(o Quantity) Quantity {
	dim := q.unit.Dim.Mul(o.unit.Dim)
	return Quantity{
		value: q.Base().Mul(o.Base()),
		unit:  Unit{Symbol: q.unit.Symbol + "·" + o.unit.Symbol, Dim: dim, Factor: decimal.NewFromInt(1)},
	}
}

// Div divides two quantities, composing their dimensions. The result is
// expressed in base units.
func (q Quantity) Div(o Quantity) Quantity {
	dim := q.unit.Dim.Div(o.unit.Dim)
	return Quantity{
		value: q.Base().Div(o.Base()),
		unit:  Unit{Symbol: q.unit.Symbol + "/" + o.unit.Symbol, Dim: dim, Factor: decimal.NewFromInt(1)},
	}
}

// Add sums two quantities of the same dimension, keeping q's unit
func (q Quantity) Add(o Quantity) (Quantity, error) {
	converted, err := o.Convert(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: q.value.Add(converted.value), unit: q.unit}, nil
}

// Sub subtracts a quantity of the same dimension, keeping q's unit
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	converted, err := o.Convert(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: q.value.Sub(converted.value), unit: q.unit}, nil
}

// Neg returns the negated quantity
func (q Quantity) Neg() Quantity {
	return Quantity{value: q.value.Neg(), unit: q.unit}
}

// Abs returns the magnitude of the quantity
func (q Quantity) Abs() Quantity {
	return Quantity{value: q.value.Abs(), unit: q.unit}
}

// Sign returns -1, 0 or 1 by the sign of the value
func (q Quantity) Sign() int {
	return q.value.Sign()
}

// Cmp compares two quantities of the same dimension
func (q Quantity) Cmp(o Quantity) (int, error) {
	converted, err := o.Convert(q.unit)
	if err != nil {
		return 0, err
	}
	return q.value.Cmp(converted.value), nil
}

// String renders the quantity as "value symbol"
func (q Quantity) String() string {
	return q.value.String() + " " + q.unit.Symbol
}
