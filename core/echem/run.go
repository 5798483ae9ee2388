// Package echem models imported electrochemical experiments.
// A Run is the full set of data imported from one experiment file,
// split into charge/discharge cycles and annotated with unit-aware
// metadata read from the file headers.
package echem

import (
	"time"

	"go.uber.org/zap"

	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
	"galvanokit/internal/logging"
)

// Column labels shared across importers. Importers normalize their
// vendor's spellings to these.
const (
	ColTime         = "time/s"
	ColTimeHours    = "time/h"
	ColPotential    = "Ewe/V"
	ColCurrent      = "<I>/mA"
	ColCharge       = "(Q-Qo)/mA.h"
	ColCycle        = "cycle number"
	ColCapacity     = "capacity"
	ColDifferential = "d(Q-Qo)/dE/mA.h/V"
)

// Technique identifies the experiment type
type Technique string

const (
	// TechniqueCycling is galvanostatic cycling (GCPL and friends)
	TechniqueCycling Technique = "galvanostatic cycling"

	// TechniqueVoltammetry is cyclic voltammetry
	TechniqueVoltammetry Technique = "cyclic voltammetry"
)

// Metadata carries everything an importer learned from a file's headers
type Metadata struct {
	// Technique is the experiment type
	Technique Technique

	// Mass is the active material mass, zero if unknown
	Mass units.Quantity

	// StartTime is when acquisition began, zero if unknown
	StartTime time.Time

	// ChargeCurrent is the programmed charge current, zero if unknown
	ChargeCurrent units.Quantity

	// DischargeCurrent is the programmed discharge current, zero if unknown
	DischargeCurrent units.Quantity

	// TheoreticalCapacity is the capacity the vendor software computed
	// for the cell, zero if unknown
	TheoreticalCapacity units.Quantity
}

// Run is the top-level imported artifact. It is immutable once built.
type Run struct {
	source string
	meta   Metadata
	frame  *series.Frame
	cycles []*Cycle
}

// NewRun assembles a run from a sample frame and header metadata.
// It derives the capacity column (net charge over active mass when a
// mass is known, raw net charge otherwise) and the per-cycle grouping.
func NewRun(source string, frame *series.Frame, meta Metadata) (*Run, error) {
	r := &Run{source: source, meta: meta, frame: frame}

	if err := r.deriveCapacity(); err != nil {
		return nil, err
	}
	if err := r.deriveHours(); err != nil {
		return nil, err
	}
	if err := r.splitCycles(); err != nil {
		return nil, err
	}

	logging.Debug("assembled run",
		zap.String("source", source),
		zap.Int("samples", frame.Len()),
		zap.Int("cycles", len(r.cycles)))
	return r, nil
}

// deriveCapacity adds the capacity column from the net charge column.
// With a known mass the result is specific capacity in mAh/g.
func (r *Run) deriveCapacity() error {
	if !r.frame.Has(ColCharge) {
		return nil
	}
	charge, err := r.frame.Column(ColCharge)
	if err != nil {
		return err
	}

	if r.meta.Mass.IsZero() {
		values := make([]float64, len(charge.Values))
		copy(values, charge.Values)
		return r.frame.AddColumn(&series.Column{
			Label:  ColCapacity,
			Unit:   units.MilliampereHour,
			Values: values,
		})
	}

	grams, err := r.meta.Mass.Convert(units.Gram)
	if err != nil {
		return errors.Wrap(errors.TypeUnit, "active mass is not a mass", err)
	}
	massG := grams.Float64()
	if massG == 0 {
		return errors.Unit("active mass is zero")
	}

	values := make([]float64, len(charge.Values))
	for i, q := range charge.Values {
		values[i] = q / massG
	}
	return r.frame.AddColumn(&series.Column{
		Label:  ColCapacity,
		Unit:   units.MilliampereHourPerG,
		Values: values,
	})
}

// deriveHours adds time in hours alongside time in seconds
func (r *Run) deriveHours() error {
	if !r.frame.Has(ColTime) || r.frame.Has(ColTimeHours) {
		return nil
	}
	seconds, err := r.frame.Column(ColTime)
	if err != nil {
		return err
	}
	values := make([]float64, len(seconds.Values))
	for i, s := range seconds.Values {
		values[i] = s / 3600
	}
	return r.frame.AddColumn(&series.Column{
		Label:  ColTimeHours,
		Unit:   units.Hour,
		Values: values,
	})
}

// splitCycles groups samples into cycles by the cycle counter column.
// Files without a counter become one cycle.
func (r *Run) splitCycles() error {
	if !r.frame.Has(ColCycle) {
		r.cycles = []*Cycle{{Number: 0, frame: r.frame}}
		return nil
	}
	keys, frames, err := r.frame.GroupBy(ColCycle)
	if err != nil {
		return err
	}
	r.cycles = make([]*Cycle, len(frames))
	for i := range frames {
		r.cycles[i] = &Cycle{Number: int(keys[i]), frame: frames[i]}
	}
	return nil
}

// Source returns the path the run was imported from
func (r *Run) Source() string {
	return r.source
}

// Technique returns the experiment type
func (r *Run) Technique() Technique {
	return r.meta.Technique
}

// Data returns the full sample frame
func (r *Run) Data() *series.Frame {
	return r.frame
}

// Cycles returns the charge/discharge cycles in chronological order
func (r *Run) Cycles() []*Cycle {
	return r.cycles
}

// Mass returns the active material mass, zero if unknown
func (r *Run) Mass() units.Quantity {
	return r.meta.Mass
}

// StartTime returns when acquisition began
func (r *Run) StartTime() time.Time {
	return r.meta.StartTime
}

// ChargeCurrent returns the programmed charge current
func (r *Run) ChargeCurrent() units.Quantity {
	return r.meta.ChargeCurrent
}

// DischargeCurrent returns the programmed discharge current
func (r *Run) DischargeCurrent() units.Quantity {
	return r.meta.DischargeCurrent
}

// TheoreticalCapacity returns the vendor-computed cell capacity
func (r *Run) TheoreticalCapacity() units.Quantity {
	return r.meta.TheoreticalCapacity
}

// CapacityUnit returns the unit of the derived capacity column
func (r *Run) CapacityUnit() units.Unit {
	if r.meta.Mass.IsZero() {
		return units.MilliampereHour
	}
	return units.MilliampereHourPerG
}

// ClosestDatum retrieves the sample nearest to a value along a column.
// Works best for monotonic columns, like time.
func (r *Run) ClosestDatum(value float64, label string) (map[string]units.Quantity, error) {
	row, err := r.frame.ClosestRow(label, value)
	if err != nil {
		return nil, err
	}
	return r.frame.Row(row), nil
}

// ChargeCapacities returns the charge capacity of every cycle
func (r *Run) ChargeCapacities() ([]units.Quantity, error) {
	out := make([]units.Quantity, len(r.cycles))
	for i, c := range r.cycles {
		q, err := c.ChargeCapacity()
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

// DischargeCapacities returns the discharge capacity of every cycle
func (r *Run) DischargeCapacities() ([]units.Quantity, error) {
	out := make([]units.Quantity, len(r.cycles))
	for i, c := range r.cycles {
		q, err := c.DischargeCapacity()
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

// CoulombicEfficiencies returns discharge/charge ratios per cycle, in
// percent
func (r *Run) CoulombicEfficiencies() ([]float64, error) {
	charge, err := r.ChargeCapacities()
	if err != nil {
		return nil, err
	}
	discharge, err := r.DischargeCapacities()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(charge))
	for i := range charge {
		if charge[i].Sign() == 0 {
			return nil, errors.NotFound("charge capacity", "cycle")
		}
		ratio := discharge[i].Div(charge[i])
		out[i] = ratio.Float64() * 100
	}
	return out, nil
}

// Voltammogram is a run of cyclic voltammetry data. Structurally the
// same as a cycling Run; plotting defaults differ (potential against
// current rather than capacity against potential).
type Voltammogram struct {
	*Run
}

// NewVoltammogram assembles a voltammogram from a sample frame
func NewVoltammogram(source string, frame *series.Frame, meta Metadata) (*Voltammogram, error) {
	meta.Technique = TechniqueVoltammetry
	run, err := NewRun(source, frame, meta)
	if err != nil {
		return nil, err
	}
	return &Voltammogram{Run: run}, nil
}
