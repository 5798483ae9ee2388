package echem

import (
	"math"

	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// Cycle is one charge/discharge segment of a run. Cycles are owned by
// their run and ordered chronologically.
type Cycle struct {
	// Number is the cycle counter from the source file
	Number int

	frame *series.Frame
}

// Data returns the cycle's samples
func (c *Cycle) Data() *series.Frame {
	return c.frame
}

// Len returns the number of samples in the cycle
func (c *Cycle) Len() int {
	return c.frame.Len()
}

// ChargeCapacity is the difference between the discharged and the
// charged state: max capacity minus the first valid capacity reading.
func (c *Cycle) ChargeCapacity() (units.Quantity, error) {
	capacity, err := c.frame.Column(ColCapacity)
	if err != nil {
		return units.Quantity{}, err
	}

	max, ok := nanMax(capacity.Values)
	if !ok {
		return units.Quantity{}, errors.NotFound("capacity data", "cycle")
	}
	first, ok := firstValid(capacity.Values)
	if !ok {
		return units.Quantity{}, errors.NotFound("capacity data", "cycle")
	}
	return units.NewFromFloat(max-first, capacity.Unit), nil
}

// DischargeCapacity is the difference between the charged and the
// discharged state: max capacity minus the minimum capacity reached
// while current is negative.
func (c *Cycle) DischargeCapacity() (units.Quantity, error) {
	capacity, err := c.frame.Column(ColCapacity)
	if err != nil {
		return units.Quantity{}, err
	}
	current, err := c.frame.Column(ColCurrent)
	if err != nil {
		return units.Quantity{}, err
	}

	max, ok := nanMax(capacity.Values)
	if !ok {
		return units.Quantity{}, errors.NotFound("capacity data", "cycle")
	}

	min := math.Inf(1)
	found := false
	for i, v := range capacity.Values {
		if current.Values[i] >= 0 || math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
			found = true
		}
	}
	if !found {
		return units.Quantity{}, errors.NotFound("discharge data", "cycle")
	}
	return units.NewFromFloat(max-min, capacity.Unit), nil
}

// nanMax is max over a slice ignoring NaN
func nanMax(values []float64) (float64, bool) {
	max := math.Inf(-1)
	found := false
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v > max {
			max = v
			found = true
		}
	}
	return max, found
}

// firstValid returns the first non-NaN value
func firstValid(values []float64) (float64, bool) {
	for _, v := range values {
		if !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}
