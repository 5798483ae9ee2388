package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galvanokit/core/echem"
	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

func testRun(t *testing.T) *echem.Run {
	t.Helper()
	frame, err := series.NewFrame(
		&series.Column{Label: echem.ColTime, Unit: units.Second, Values: []float64{0, 10, 20, 30, 40, 50, 60, 70}},
		&series.Column{Label: echem.ColPotential, Unit: units.Volt, Values: []float64{3.0, 3.2, 3.4, 3.1, 2.9, 3.0, 3.3, 2.8}},
		&series.Column{Label: echem.ColCurrent, Unit: units.Milliampere, Values: []float64{0.5, 0.5, 0.5, -0.5, -0.5, 0.5, 0.5, -0.5}},
		&series.Column{Label: echem.ColCharge, Unit: units.MilliampereHour, Values: []float64{0, 0.01, 0.02, 0.015, 0.01, 0.015, 0.02, 0.012}},
		&series.Column{Label: echem.ColCycle, Unit: units.Unit{}, Values: []float64{1, 1, 1, 1, 1, 2, 2, 2}},
	)
	require.NoError(t, err)

	run, err := echem.NewRun("cell.mpt", frame, echem.Metadata{
		Technique: echem.TechniqueCycling,
		Mass:      units.MustParse("20 mg"),
	})
	require.NoError(t, err)
	return run
}

func TestCyclesDefaultAxes(t *testing.T) {
	p, err := Cycles(testRun(t), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Capacity / mAh/g", p.X.Label.Text)
	assert.Equal(t, echem.ColPotential, p.Y.Label.Text)
}

func TestCyclesExplicitAxes(t *testing.T) {
	p, err := Cycles(testRun(t), Options{X: echem.ColTime, Y: echem.ColCurrent, Title: "cell 4"})
	require.NoError(t, err)

	assert.Equal(t, echem.ColTime, p.X.Label.Text)
	assert.Equal(t, echem.ColCurrent, p.Y.Label.Text)
	assert.Equal(t, "cell 4", p.Title.Text)
}

func TestCyclesUnknownColumn(t *testing.T) {
	_, err := Cycles(testRun(t), Options{X: "pressure", Y: echem.ColPotential})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeColumn))
}

func TestSaveCyclesFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cell.png", "cell.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveCycles(testRun(t), Options{}, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestCapacitiesDirections(t *testing.T) {
	run := testRun(t)

	p, err := Capacities(run, Charge)
	require.NoError(t, err)
	assert.Contains(t, p.Y.Label.Text, "charge capacity")

	p, err = Capacities(run, Discharge)
	require.NoError(t, err)
	assert.Contains(t, p.Y.Label.Text, "discharge capacity")

	_, err = Capacities(run, Direction("sideways"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestSaveCapacitiesStacked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capacities.png")
	require.NoError(t, SaveCapacities(testRun(t), Discharge, true, Options{}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveCapacitiesStackedRequiresPNG(t *testing.T) {
	err := SaveCapacities(testRun(t), Discharge, true, Options{}, filepath.Join(t.TempDir(), "capacities.svg"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

// differentialRun carries the vendor's d(Q-Qo)/dE column
func differentialRun(t *testing.T) *echem.Run {
	t.Helper()
	frame, err := series.NewFrame(
		&series.Column{Label: echem.ColTime, Unit: units.Second, Values: []float64{0, 10, 20, 30}},
		&series.Column{Label: echem.ColPotential, Unit: units.Volt, Values: []float64{3.0, 3.2, 3.1, 3.3}},
		&series.Column{Label: echem.ColCurrent, Unit: units.Milliampere, Values: []float64{0.5, 0.5, 0.5, 0.5}},
		&series.Column{Label: echem.ColCharge, Unit: units.MilliampereHour, Values: []float64{0, 0.01, 0.015, 0.02}},
		&series.Column{Label: echem.ColCycle, Unit: units.Unit{}, Values: []float64{1, 1, 2, 2}},
		&series.Column{Label: echem.ColDifferential, Values: []float64{0.05, 0.04, 0.06, 0.03}},
	)
	require.NoError(t, err)

	run, err := echem.NewRun("cell.mpt", frame, echem.Metadata{
		Technique: echem.TechniqueCycling,
		Mass:      units.MustParse("20 mg"),
	})
	require.NoError(t, err)
	return run
}

func TestDifferentialCapacityAxes(t *testing.T) {
	p, err := DifferentialCapacity(differentialRun(t))
	require.NoError(t, err)

	assert.Equal(t, echem.ColPotential, p.X.Label.Text)
	assert.Equal(t, echem.ColDifferential, p.Y.Label.Text)
}

func TestDifferentialCapacityRequiresColumn(t *testing.T) {
	_, err := DifferentialCapacity(testRun(t))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeColumn))
}

func TestSaveDifferentialPaired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "differential.png")
	require.NoError(t, SaveDifferential(differentialRun(t), Options{}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveDifferentialRequiresPNG(t *testing.T) {
	err := SaveDifferential(differentialRun(t), Options{}, filepath.Join(t.TempDir(), "differential.svg"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}
