package chinstruments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galvanokit/core/echem"
	"galvanokit/core/importer"
	"galvanokit/core/units"
)

const cyclingFile = "testdata/cycling.txt"

func TestCanImport(t *testing.T) {
	imp := New()
	ctx := context.Background()

	ok, err := imp.CanImport(ctx, cyclingFile)
	require.NoError(t, err)
	assert.True(t, ok)

	// A file that does not open with the CHI timestamp is rejected
	other := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("EC-Lab ASCII FILE\n"), 0644))
	ok, err = imp.CanImport(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportReconstructsConstantColumns(t *testing.T) {
	run, err := New().Import(context.Background(), cyclingFile, importer.Options{})
	require.NoError(t, err)

	current, err := run.Data().Column(echem.ColCurrent)
	require.NoError(t, err)
	potential, err := run.Data().Column(echem.ColPotential)
	require.NoError(t, err)

	// First segment has no current column: the programmed anodic
	// current fills in, positive while charging.
	assert.InDelta(t, 0.14, current.Values[0], 1e-9)

	// Last segment runs after the hold flipped the direction: the
	// cathodic current fills in, negative.
	last := len(current.Values) - 1
	assert.InDelta(t, -0.14, current.Values[last], 1e-9)
	assert.InDelta(t, 0.8, potential.Values[last], 1e-9)

	// The hold segment has no potential column: the high E limit
	// fills in.
	assert.InDelta(t, 1.7, potential.Values[3], 1e-9)
}

func TestImportRebasesTimestamps(t *testing.T) {
	run, err := New().Import(context.Background(), cyclingFile, importer.Options{})
	require.NoError(t, err)

	// The header timestamp marks the end of the 45 s experiment
	end := time.Date(2021, 4, 7, 16, 33, 2, 0, time.UTC)
	assert.Equal(t, end.Add(-45*time.Second), run.StartTime())

	seconds, err := run.Data().Column(echem.ColTime)
	require.NoError(t, err)
	assert.Equal(t, 0.0, seconds.Values[0])
	assert.Equal(t, 45.0, seconds.Values[len(seconds.Values)-1])
}

func TestImportProgrammedCurrents(t *testing.T) {
	run, err := New().Import(context.Background(), cyclingFile, importer.Options{})
	require.NoError(t, err)

	charge, err := run.ChargeCurrent().Convert(units.Ampere)
	require.NoError(t, err)
	assert.InDelta(t, 1.4e-4, charge.Float64(), 1e-12)

	discharge, err := run.DischargeCurrent().Convert(units.Ampere)
	require.NoError(t, err)
	assert.InDelta(t, -1.4e-4, discharge.Float64(), 1e-12)
}

func TestImportWithMassDerivesCapacity(t *testing.T) {
	run, err := New().Import(context.Background(), cyclingFile, importer.Options{
		Mass: units.MustParse("10 mg"),
	})
	require.NoError(t, err)

	assert.Equal(t, units.MilliampereHourPerG, run.CapacityUnit())
	capacity, err := run.Data().Column(echem.ColCapacity)
	require.NoError(t, err)
	assert.Equal(t, 0.0, capacity.Values[0])
}

func TestImportMultipleFiles(t *testing.T) {
	// A formation file that ends an hour before the cycling file
	formation := filepath.Join(t.TempDir(), "formation.txt")
	content := "Apr. 07, 2021   15:33:02\n" +
		"Galvanostatic Charge/Discharge\n" +
		"File: C:\\chi\\cylindrical_2_formation.bin\n" +
		"\n" +
		"Init P/N = P\n" +
		"Anodic Current (A) = 1.4e-4\n" +
		"Cathodic Current (A) = 1.4e-4\n" +
		"High E Limit (V) = 1.7\n" +
		"Low E Limit (V) = 0.8\n" +
		"\n" +
		"Time/sec, Current/A, Potential/V\n" +
		"0.0, 1.4e-4, 0.8\n" +
		"10.0, 1.4e-4, 1.1\n"
	require.NoError(t, os.WriteFile(formation, []byte(content), 0644))

	run, err := ImportFiles(context.Background(), []string{cyclingFile, formation}, importer.Options{})
	require.NoError(t, err)

	// 2 formation samples plus 8 cycling samples, formation first on
	// the merged time axis
	require.Equal(t, 10, run.Data().Len())
	potential, err := run.Data().Column(echem.ColPotential)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, potential.Values[0], 1e-9)

	// Formation spans 10 s ending 15:33:02, so it starts at 15:32:52;
	// the 45 s cycling run ends an hour later and picks up 3565 s in.
	seconds, err := run.Data().Column(echem.ColTime)
	require.NoError(t, err)
	assert.Equal(t, 0.0, seconds.Values[0])
	assert.Equal(t, 10.0, seconds.Values[1])
	assert.Equal(t, 3565.0, seconds.Values[2])
	assert.Equal(t, 3610.0, seconds.Values[9])
}

func TestImportMalformed(t *testing.T) {
	cases := map[string]string{
		"no timestamp": "not a chinstruments file\nGalvanostatic\n\nInit P/N = P\n",
		"data before header": "Apr. 07, 2021   16:33:02\n" +
			"Galvanostatic Charge/Discharge\n" +
			"File: x\n\n" +
			"Init P/N = P\n\n" +
			"0.0, 0.85\n",
		"missing metadata for constant column": "Apr. 07, 2021   16:33:02\n" +
			"Galvanostatic Charge/Discharge\n" +
			"File: x\n\n" +
			"Init P/N = P\n\n" +
			"Time/sec, Potential/V\n" +
			"0.0, 0.85\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.txt")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			run, err := New().Import(context.Background(), path, importer.Options{})
			require.Error(t, err)
			assert.Nil(t, run)
		})
	}
}
