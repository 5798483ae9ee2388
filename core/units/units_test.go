package units

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestMilliampereHourScale checks that a mAh is really a scaled amp-second
func TestMilliampereHourScale(t *testing.T) {
	mAh := NewFromFloat(1, MilliampereHour)
	ampereSeconds := mAh.Base()
	if !ampereSeconds.Equal(decimal.NewFromFloat(3.6)) {
		t.Errorf("1 mAh = %s A·s, want 3.6", ampereSeconds)
	}

	coulombs, err := mAh.Convert(Coulomb)
	if err != nil {
		t.Fatalf("convert mAh to C: %v", err)
	}
	if !coulombs.Value().Equal(decimal.NewFromFloat(3.6)) {
		t.Errorf("1 mAh = %s C, want 3.6", coulombs.Value())
	}
}

// TestChargeOverCurrent checks that capacity divided by current yields hours
func TestChargeOverCurrent(t *testing.T) {
	capacity := NewFromFloat(10, MilliampereHour)
	current := NewFromFloat(200, Microampere)

	duration := capacity.Div(current)
	if duration.Unit().Dim != TimeDim {
		t.Fatalf("mAh / µA has dimension %+v, want time", duration.Unit().Dim)
	}

	hours, err := duration.Convert(Hour)
	if err != nil {
		t.Fatalf("convert to hours: %v", err)
	}
	if !hours.Value().Equal(decimal.NewFromInt(50)) {
		t.Errorf("10 mAh / 200 µA = %s h, want 50", hours.Value())
	}
}

func TestParse(t *testing.T) {
	q, err := Parse("22.53 mg")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Unit() != Milligram {
		t.Errorf("unit = %s, want mg", q.Unit())
	}
	if !q.Value().Equal(decimal.NewFromFloat(22.53)) {
		t.Errorf("value = %s, want 22.53", q.Value())
	}

	grams, err := q.Convert(Gram)
	if err != nil {
		t.Fatalf("convert to g: %v", err)
	}
	if !grams.Value().Equal(decimal.NewFromFloat(0.02253)) {
		t.Errorf("mass = %s g, want 0.02253", grams.Value())
	}
}

// TestParseRejectsUnitless proves a bare number is not a quantity
func TestParseRejectsUnitless(t *testing.T) {
	for _, input := range []string{"22.53", "0", "", "3.4 parsecs"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want unit error", input)
		}
	}
}

func TestParseVendorSpellings(t *testing.T) {
	cases := map[string]Unit{
		"3.340 mA.h": MilliampereHour,
		"334.00 uA":  Microampere,
		"334.00 µA":  Microampere,
	}
	for input, want := range cases {
		q, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q): %v", input, err)
			continue
		}
		if q.Unit() != want {
			t.Errorf("Parse(%q) unit = %s, want %s", input, q.Unit(), want)
		}
	}
}

func TestParseUnitChargeSeparators(t *testing.T) {
	cases := map[string]Unit{
		"mA.h": MilliampereHour,
		"A.h":  AmpereHour,
		"uA.h": MicroampereHour,
		"µA.h": MicroampereHour,
	}
	for input, want := range cases {
		u, err := ParseUnit(input)
		if err != nil {
			t.Errorf("ParseUnit(%q): %v", input, err)
			continue
		}
		if u != want {
			t.Errorf("ParseUnit(%q) = %s, want %s", input, u, want)
		}
	}
}

func TestParseUnitRejectsStrayDots(t *testing.T) {
	// A dot outside the charge-unit spelling must not collapse into a
	// different unit ("m.g" is not milligrams)
	for _, input := range []string{"m.g", ".s", "m.V", "h."} {
		if u, err := ParseUnit(input); err == nil {
			t.Errorf("ParseUnit(%q) resolved to %s, want error", input, u)
		}
	}
}

func TestConvertIncompatibleDimensions(t *testing.T) {
	mass := MustParse("22.53 mg")
	if _, err := mass.Convert(Volt); err == nil {
		t.Error("converting mg to V succeeded, want dimension error")
	}
	if _, err := mass.Add(NewFromFloat(1, Second)); err == nil {
		t.Error("adding seconds to milligrams succeeded, want dimension error")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register(Gram); err == nil {
		t.Error("re-registering g succeeded, want error")
	}
}

func TestSpecificCapacityDimension(t *testing.T) {
	charge := NewFromFloat(1.9789, MilliampereHour)
	mass := MustParse("0.02253 g")

	specific := charge.Div(mass)
	if specific.Unit().Dim != SpecificCapDim {
		t.Fatalf("mAh / g has dimension %+v, want specific capacity", specific.Unit().Dim)
	}

	inMAhPerG, err := specific.Convert(MilliampereHourPerG)
	if err != nil {
		t.Fatalf("convert to mAh/g: %v", err)
	}
	want := 1.9789 / 0.02253
	if got := inMAhPerG.Float64(); got < want*0.999 || got > want*1.001 {
		t.Errorf("specific capacity = %v mAh/g, want about %v", got, want)
	}
}
