// Package report summarizes imported runs and renders them for humans
// and machines. A Summary is the stable shape shared by every
// formatter.
package report

import (
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"galvanokit/core/echem"
	"galvanokit/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is the raw sample table as CSV
	FormatCSV Format = "csv"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given run
	Render(w io.Writer, run *echem.Run) error
}

// For returns the formatter for a format type
func For(format Format) (Formatter, error) {
	switch format {
	case FormatCLI:
		return NewCLIFormatter(true), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, errors.NotFound("formatter", string(format))
	}
}

// Summary is the digest of a run
type Summary struct {
	// ReportID uniquely identifies this summary
	ReportID string `json:"report_id"`

	// GeneratedAt is when the summary was produced
	GeneratedAt time.Time `json:"generated_at"`

	// Source is the file the run was imported from
	Source string `json:"source"`

	// Technique is the electrochemical technique
	Technique string `json:"technique"`

	// StartTime is when the experiment began, zero if unknown
	StartTime time.Time `json:"start_time,omitempty"`

	// Points is the number of samples after downsampling
	Points int `json:"points"`

	// Mass is the active material mass, empty if unknown
	Mass string `json:"mass,omitempty"`

	// TheoreticalCapacity is the expected capacity, empty if unknown
	TheoreticalCapacity string `json:"theoretical_capacity,omitempty"`

	// ChargeCurrent and DischargeCurrent are the programmed currents
	ChargeCurrent    string `json:"charge_current,omitempty"`
	DischargeCurrent string `json:"discharge_current,omitempty"`

	// CapacityUnit is the unit of the per-cycle capacities
	CapacityUnit string `json:"capacity_unit"`

	// Cycles holds the per-cycle digest in chronological order
	Cycles []CycleSummary `json:"cycles"`
}

// CycleSummary is the digest of a single cycle
type CycleSummary struct {
	// Number is the cycle counter from the source file
	Number int `json:"number"`

	// Points is the number of samples in the cycle
	Points int `json:"points"`

	// ChargeCapacity and DischargeCapacity are in the run's
	// capacity unit; nil when the cycle has no usable samples
	ChargeCapacity    *float64 `json:"charge_capacity,omitempty"`
	DischargeCapacity *float64 `json:"discharge_capacity,omitempty"`

	// Efficiency is discharge over charge in percent
	Efficiency *float64 `json:"efficiency,omitempty"`
}

// Summarize digests a run into a Summary
func Summarize(run *echem.Run) (*Summary, error) {
	s := &Summary{
		ReportID:     uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Source:       run.Source(),
		Technique:    string(run.Technique()),
		StartTime:    run.StartTime(),
		Points:       run.Data().Len(),
		CapacityUnit: run.CapacityUnit().Symbol,
	}
	if !run.Mass().IsZero() {
		s.Mass = run.Mass().String()
	}
	if !run.TheoreticalCapacity().IsZero() {
		s.TheoreticalCapacity = run.TheoreticalCapacity().String()
	}
	if !run.ChargeCurrent().IsZero() {
		s.ChargeCurrent = run.ChargeCurrent().String()
	}
	if !run.DischargeCurrent().IsZero() {
		s.DischargeCurrent = run.DischargeCurrent().String()
	}

	for _, cycle := range run.Cycles() {
		cs := CycleSummary{
			Number: cycle.Number,
			Points: cycle.Len(),
		}
		if q, err := cycle.ChargeCapacity(); err == nil && !math.IsNaN(q.Float64()) {
			v := q.Float64()
			cs.ChargeCapacity = &v
		}
		if q, err := cycle.DischargeCapacity(); err == nil && !math.IsNaN(q.Float64()) {
			v := q.Float64()
			cs.DischargeCapacity = &v
		}
		if cs.ChargeCapacity != nil && cs.DischargeCapacity != nil && *cs.ChargeCapacity > 0 {
			e := 100 * *cs.DischargeCapacity / *cs.ChargeCapacity
			cs.Efficiency = &e
		}
		s.Cycles = append(s.Cycles, cs)
	}
	return s, nil
}
