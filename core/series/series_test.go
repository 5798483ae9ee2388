package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

func testFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(
		&Column{Label: "time/s", Unit: units.Second, Values: []float64{0, 1, 2, 3, 4, 5}},
		&Column{Label: "<I>/mA", Unit: units.Milliampere, Values: []float64{1, 1, -1, -1, 1, 1}},
		&Column{Label: "cycle number", Unit: units.Unit{}, Values: []float64{0, 0, 0, 0, 1, 1}},
	)
	require.NoError(t, err)
	return f
}

func TestFrameColumnLookup(t *testing.T) {
	f := testFrame(t)

	col, err := f.Column("<I>/mA")
	require.NoError(t, err)
	assert.Equal(t, units.Milliampere, col.Unit)

	_, err = f.Column("potential")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeColumn))
	// The error names the available columns
	assert.Contains(t, err.Error(), "time/s")
}

func TestFrameMismatchedLengths(t *testing.T) {
	_, err := NewFrame(
		&Column{Label: "a", Values: []float64{1, 2}},
		&Column{Label: "b", Values: []float64{1}},
	)
	assert.Error(t, err)
}

func TestGroupByKeepsChronologicalOrder(t *testing.T) {
	f := testFrame(t)

	keys, groups, err := f.GroupBy("cycle number")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1}, keys)
	require.Len(t, groups, 2)
	assert.Equal(t, 4, groups[0].Len())
	assert.Equal(t, 2, groups[1].Len())

	timeCol, err := groups[1].Column("time/s")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, timeCol.Values)
}

func TestGroupBySkipsNaNRows(t *testing.T) {
	// Blank cells parse as NaN, and NaN never equals itself: without
	// special handling each blank row would become its own group.
	f, err := NewFrame(
		&Column{Label: "time/s", Unit: units.Second, Values: []float64{0, 1, 2, 3, 4}},
		&Column{Label: "cycle number", Values: []float64{0, math.NaN(), 0, math.NaN(), 1}},
	)
	require.NoError(t, err)

	keys, groups, err := f.GroupBy("cycle number")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1}, keys)
	require.Len(t, groups, 2)

	timeCol, err := groups[0].Column("time/s")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, timeCol.Values)
	assert.Equal(t, 1, groups[1].Len())
}

func TestDownsample(t *testing.T) {
	f := testFrame(t)

	ds := f.Downsample(2)
	assert.Equal(t, 3, ds.Len())
	col, err := ds.Column("time/s")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, col.Values)

	// Stride 1 is a no-op
	assert.Equal(t, f, f.Downsample(1))
}

func TestClosestRow(t *testing.T) {
	f := testFrame(t)

	row, err := f.ClosestRow("time/s", 3.4)
	require.NoError(t, err)
	assert.Equal(t, 3, row)

	datum := f.Row(row)
	assert.Equal(t, -1.0, datum["<I>/mA"].Float64())
}

func TestIntegrateNet(t *testing.T) {
	time := []float64{0, 0.5, 1}
	current := []float64{10, 15, 10}
	capacity := Integrate(time, current, false)
	assert.Equal(t, []float64{0, 6.25, 12.5}, capacity)
}

func TestIntegrateAbsolute(t *testing.T) {
	time := []float64{0, 0.5, 1}
	current := []float64{10, -15, 10}

	// Net charge partially cancels
	net := Integrate(time, current, false)
	assert.Equal(t, []float64{0, -1.25, -2.5}, net)

	// Total charge passed does not
	total := Integrate(time, current, true)
	assert.Equal(t, []float64{0, 6.25, 12.5}, total)
}
