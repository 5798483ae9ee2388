// Package series provides the columnar sample storage shared by all
// importers. A Frame holds the time series of one experiment: every column
// has a label, a unit and one float per sample.
package series

import (
	"math"

	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// Column is one labelled, unit-tagged series of samples
type Column struct {
	// Label is the column name, kept in the vendor's spelling
	// (e.g. "Ewe/V") so files and frames line up.
	Label string `json:"label"`

	// Unit is the unit the values are expressed in
	Unit units.Unit `json:"unit"`

	// Values are the samples in row order
	Values []float64 `json:"values"`
}

// Quantity returns one sample as a unit-aware quantity
func (c *Column) Quantity(row int) units.Quantity {
	return units.NewFromFloat(c.Values[row], c.Unit)
}

// Frame is an ordered set of equal-length columns
type Frame struct {
	columns []*Column
	index   map[string]int
}

// NewFrame builds a frame from columns. All columns must have the same
// length and distinct labels.
func NewFrame(columns ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, col := range columns {
		if err := f.add(col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) add(col *Column) error {
	if _, exists := f.index[col.Label]; exists {
		return errors.Newf(errors.TypeInternal, "duplicate column %q", col.Label)
	}
	if len(f.columns) > 0 && len(col.Values) != f.Len() {
		return errors.Newf(errors.TypeInternal,
			"column %q has %d rows, frame has %d", col.Label, len(col.Values), f.Len())
	}
	f.index[col.Label] = len(f.columns)
	f.columns = append(f.columns, col)
	return nil
}

// AddColumn appends a derived column to the frame
func (f *Frame) AddColumn(col *Column) error {
	return f.add(col)
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.columns[0].Values)
}

// Labels returns the column labels in order
func (f *Frame) Labels() []string {
	labels := make([]string, len(f.columns))
	for i, col := range f.columns {
		labels[i] = col.Label
	}
	return labels
}

// Has reports whether a column exists
func (f *Frame) Has(label string) bool {
	_, ok := f.index[label]
	return ok
}

// Column looks up a column by label. Missing columns report the
// available choices.
func (f *Frame) Column(label string) (*Column, error) {
	i, ok := f.index[label]
	if !ok {
		return nil, errors.Column(label, f.Labels())
	}
	return f.columns[i], nil
}

// Columns returns the columns in order
func (f *Frame) Columns() []*Column {
	return f.columns
}

// Take builds a new frame from the given rows, in the given order
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.columns))}
	for _, col := range f.columns {
		values := make([]float64, len(rows))
		for i, row := range rows {
			values[i] = col.Values[row]
		}
		// add cannot fail: labels and lengths come from a valid frame
		_ = out.add(&Column{Label: col.Label, Unit: col.Unit, Values: values})
	}
	return out
}

// Downsample keeps every stride-th row
func (f *Frame) Downsample(stride int) *Frame {
	if stride <= 1 {
		return f
	}
	rows := make([]int, 0, (f.Len()+stride-1)/stride)
	for i := 0; i < f.Len(); i += stride {
		rows = append(rows, i)
	}
	return f.Take(rows)
}

// GroupBy partitions rows by the values of a column, first-seen order.
// For cycler exports the grouping column is the cycle counter, so
// first-seen order is chronological order. Rows with a NaN grouping
// value are left out of every group.
func (f *Frame) GroupBy(label string) ([]float64, []*Frame, error) {
	col, err := f.Column(label)
	if err != nil {
		return nil, nil, err
	}

	var keys []float64
	groups := make(map[float64][]int)
	for row, v := range col.Values {
		// NaN never equals itself, so a NaN key would leak one
		// single-row group per blank cell. Skip those rows.
		if math.IsNaN(v) {
			continue
		}
		if _, seen := groups[v]; !seen {
			keys = append(keys, v)
		}
		groups[v] = append(groups[v], row)
	}

	frames := make([]*Frame, len(keys))
	for i, key := range keys {
		frames[i] = f.Take(groups[key])
	}
	return keys, frames, nil
}

// ClosestRow finds the row whose value in a column is nearest to the
// target. Works best for monotonic columns, like time. NaN rows are
// skipped.
func (f *Frame) ClosestRow(label string, value float64) (int, error) {
	col, err := f.Column(label)
	if err != nil {
		return 0, err
	}

	best := -1
	bestDist := math.Inf(1)
	for row, v := range col.Values {
		if math.IsNaN(v) {
			continue
		}
		if d := math.Abs(v - value); d < bestDist {
			best = row
			bestDist = d
		}
	}
	if best < 0 {
		return 0, errors.NotFound("datum", label)
	}
	return best, nil
}

// Row returns one row as label-keyed quantities
func (f *Frame) Row(row int) map[string]units.Quantity {
	out := make(map[string]units.Quantity, len(f.columns))
	for _, col := range f.columns {
		out[col.Label] = col.Quantity(row)
	}
	return out
}
