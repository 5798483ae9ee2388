// Package units provides unit-aware physical quantities for
// electrochemical data. Every measured value entering the library carries
// an explicit unit; bare numbers are not representable as quantities.
package units

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"galvanokit/internal/errors"
)

// Dimension is an exponent vector over the base dimensions used in
// electrochemistry. Charge is current*time, specific capacity is
// current*time/mass, and so on.
type Dimension struct {
	Mass    int8 `json:"mass"`
	Current int8 `json:"current"`
	Time    int8 `json:"time"`
	Voltage int8 `json:"voltage"`
}

// Common dimensions
var (
	Dimensionless  = Dimension{}
	MassDim        = Dimension{Mass: 1}
	CurrentDim     = Dimension{Current: 1}
	TimeDim        = Dimension{Time: 1}
	VoltageDim     = Dimension{Voltage: 1}
	ChargeDim      = Dimension{Current: 1, Time: 1}
	SpecificCapDim = Dimension{Current: 1, Time: 1, Mass: -1}
)

// Mul combines two dimensions under multiplication
func (d Dimension) Mul(o Dimension) Dimension {
	return Dimension{
		Mass:    d.Mass + o.Mass,
		Current: d.Current + o.Current,
		Time:    d.Time + o.Time,
		Voltage: d.Voltage + o.Voltage,
	}
}

// Div combines two dimensions under division
func (d Dimension) Div(o Dimension) Dimension {
	return Dimension{
		Mass:    d.Mass - o.Mass,
		Current: d.Current - o.Current,
		Time:    d.Time - o.Time,
		Voltage: d.Voltage - o.Voltage,
	}
}

// IsZero reports whether the dimension is dimensionless
func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// Unit is a named scale of a dimension. Factor converts a value in this
// unit to the base units (gram, ampere, second, volt).
type Unit struct {
	// Symbol is the canonical unit symbol (e.g. "mg")
	Symbol string `json:"symbol"`

	// Dim is the unit's dimension
	Dim Dimension `json:"dim"`

	// Factor is the multiplier to base units
	Factor decimal.Decimal `json:"factor"`
}

// String returns the unit symbol
func (u Unit) String() string {
	return u.Symbol
}

// IsZero reports whether the unit is the zero value (no unit at all)
func (u Unit) IsZero() bool {
	return u.Symbol == "" && u.Dim.IsZero() && u.Factor.IsZero()
}

func scaled(symbol string, dim Dimension, factor string) Unit {
	f, err := decimal.NewFromString(factor)
	if err != nil {
		panic("units: bad factor " + factor)
	}
	return Unit{Symbol: symbol, Dim: dim, Factor: f}
}

// Units understood out of the box. The set mirrors what vendor cycler
// exports actually use.
var (
	Gram      = scaled("g", MassDim, "1")
	Milligram = scaled("mg", MassDim, "0.001")
	Kilogram  = scaled("kg", MassDim, "1000")

	Ampere      = scaled("A", CurrentDim, "1")
	Milliampere = scaled("mA", CurrentDim, "0.001")
	Microampere = scaled("µA", CurrentDim, "0.000001")

	Volt      = scaled("V", VoltageDim, "1")
	Millivolt = scaled("mV", VoltageDim, "0.001")

	Second = scaled("s", TimeDim, "1")
	Minute = scaled("min", TimeDim, "60")
	Hour   = scaled("h", TimeDim, "3600")

	Coulomb             = scaled("C", ChargeDim, "1")
	AmpereHour          = scaled("Ah", ChargeDim, "3600")
	MilliampereHour     = scaled("mAh", ChargeDim, "3.6")
	MicroampereHour     = scaled("µAh", ChargeDim, "0.0036")
	MilliampereHourPerG = scaled("mAh/g", SpecificCapDim, "3.6")
)

// registry is the process-wide unit registry
var registry = struct {
	mu    sync.RWMutex
	units map[string]Unit
}{units: make(map[string]Unit)}

// Register adds a unit to the registry under its symbol and any aliases.
// Registering a symbol twice is an error.
func Register(u Unit, aliases ...string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	symbols := append([]string{u.Symbol}, aliases...)
	for _, s := range symbols {
		if _, exists := registry.units[s]; exists {
			return errors.Unitf("unit already registered: %s", s)
		}
	}
	for _, s := range symbols {
		registry.units[s] = u
	}
	return nil
}

// Lookup resolves a unit symbol
func Lookup(symbol string) (Unit, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	u, ok := registry.units[symbol]
	return u, ok
}

// ParseUnit resolves a unit symbol, normalizing vendor spellings such as
// "mA.h" (EC-Lab) and "uA" (ASCII micro) along the way. Only the
// charge-unit separator is rewritten; a stray dot anywhere else keeps
// the symbol unknown rather than resolving to a different unit.
func ParseUnit(symbol string) (Unit, error) {
	s := strings.TrimSpace(symbol)
	s = strings.ReplaceAll(s, "A.h", "Ah")
	s = strings.ReplaceAll(s, "uA", "µA")
	u, ok := Lookup(s)
	if !ok {
		return Unit{}, errors.Unitf("unknown unit %q", symbol)
	}
	return u, nil
}

func init() {
	for _, reg := range []struct {
		unit    Unit
		aliases []string
	}{
		{Gram, nil},
		{Milligram, nil},
		{Kilogram, nil},
		{Ampere, nil},
		{Milliampere, nil},
		{Microampere, []string{"uA"}},
		{Volt, nil},
		{Millivolt, nil},
		{Second, []string{"sec"}},
		{Minute, nil},
		{Hour, nil},
		{Coulomb, nil},
		{AmpereHour, nil},
		{MilliampereHour, nil},
		{MicroampereHour, []string{"uAh"}},
		{MilliampereHourPerG, nil},
	} {
		if err := Register(reg.unit, reg.aliases...); err != nil {
			panic(err)
		}
	}
}
