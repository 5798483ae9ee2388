package echem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galvanokit/core/series"
	"galvanokit/core/units"
)

// cyclingFrame builds two cycles of a toy galvanostatic experiment:
// charge up to 2 mAh of net charge, discharge back down, twice.
func cyclingFrame(t *testing.T) *series.Frame {
	t.Helper()
	f, err := series.NewFrame(
		&series.Column{Label: ColTime, Unit: units.Second,
			Values: []float64{0, 3600, 7200, 10800, 14400, 18000, 21600, 25200}},
		&series.Column{Label: ColPotential, Unit: units.Volt,
			Values: []float64{3.0, 3.5, 4.0, 3.5, 3.0, 3.5, 4.0, 3.1}},
		&series.Column{Label: ColCurrent, Unit: units.Milliampere,
			Values: []float64{1, 1, 1, -1, -1, 1, 1, -1}},
		&series.Column{Label: ColCharge, Unit: units.MilliampereHour,
			Values: []float64{0, 1, 2, 1, 0.5, 1.5, 2.5, 1.0}},
		&series.Column{Label: ColCycle, Unit: units.Unit{},
			Values: []float64{0, 0, 0, 0, 0, 1, 1, 1}},
	)
	require.NoError(t, err)
	return f
}

func TestNewRunDerivesSpecificCapacity(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Technique: TechniqueCycling,
		Mass:      units.MustParse("2 g"),
	})
	require.NoError(t, err)

	assert.Equal(t, units.MilliampereHourPerG, run.CapacityUnit())

	capacity, err := run.Data().Column(ColCapacity)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1, 0.5, 0.25, 0.75, 1.25, 0.5}, capacity.Values)

	hours, err := run.Data().Column(ColTimeHours)
	require.NoError(t, err)
	assert.Equal(t, 1.0, hours.Values[1])
}

func TestNewRunWithoutMassKeepsRawCharge(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{Technique: TechniqueCycling})
	require.NoError(t, err)

	assert.Equal(t, units.MilliampereHour, run.CapacityUnit())
	capacity, err := run.Data().Column(ColCapacity)
	require.NoError(t, err)
	assert.Equal(t, 2.0, capacity.Values[2])
}

func TestNewRunRejectsZeroMass(t *testing.T) {
	_, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Mass: units.MustParse("0 g"),
	})
	assert.Error(t, err)
}

func TestCyclesAreChronological(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Mass: units.MustParse("2 g"),
	})
	require.NoError(t, err)

	cycles := run.Cycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, 0, cycles[0].Number)
	assert.Equal(t, 1, cycles[1].Number)
	assert.Equal(t, 5, cycles[0].Len())
	assert.Equal(t, 3, cycles[1].Len())
}

func TestCycleCapacities(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Mass: units.MustParse("2 g"),
	})
	require.NoError(t, err)

	first := run.Cycles()[0]

	charge, err := first.ChargeCapacity()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, charge.Float64(), 1e-9)
	assert.Equal(t, units.MilliampereHourPerG, charge.Unit())

	discharge, err := first.DischargeCapacity()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, discharge.Float64(), 1e-9)
}

func TestCoulombicEfficiencies(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Mass: units.MustParse("2 g"),
	})
	require.NoError(t, err)

	eff, err := run.CoulombicEfficiencies()
	require.NoError(t, err)
	require.Len(t, eff, 2)
	assert.InDelta(t, 75.0, eff[0], 1e-9)
}

func TestClosestDatum(t *testing.T) {
	run, err := NewRun("cell1.mpt", cyclingFrame(t), Metadata{
		Mass: units.MustParse("2 g"),
	})
	require.NoError(t, err)

	datum, err := run.ClosestDatum(7300, ColTime)
	require.NoError(t, err)
	assert.Equal(t, 4.0, datum[ColPotential].Float64())
	assert.InDelta(t, 1.0, datum[ColCapacity].Float64(), 1e-9)
}

func TestVoltammogramTechnique(t *testing.T) {
	vg, err := NewVoltammogram("cv.mpt", cyclingFrame(t), Metadata{})
	require.NoError(t, err)
	assert.Equal(t, TechniqueVoltammetry, vg.Technique())
	assert.Len(t, vg.Cycles(), 2)
}
