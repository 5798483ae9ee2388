// Package maccor imports text files exported from Maccor MIMS
// software. The export is tab-separated: thirteen preamble lines, a
// column header, one units line, then data. Test time is in minutes and
// discharge rows are flagged by mode rather than by current sign, so
// both are normalized on import.
package maccor

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"galvanokit/core/echem"
	"galvanokit/core/importer"
	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
	"galvanokit/internal/logging"
)

// ColTotalCharge is the running total of charge passed regardless of
// direction, alongside the net charge in echem.ColCharge
const ColTotalCharge = "Qtot/mA.h"

// preambleLines precede the column header in every MIMS export
const preambleLines = 13

// TextImporter imports Maccor MIMS text exports
type TextImporter struct{}

// New creates a Maccor importer
func New() *TextImporter {
	return &TextImporter{}
}

// Name returns the importer identifier
func (i *TextImporter) Name() string {
	return "maccor-text"
}

// CanImport probes for the MIMS column header after the preamble
func (i *TextImporter) CanImport(ctx context.Context, path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, _ := f.Read(buf)
	lines := strings.Split(string(buf[:n]), "\n")
	if len(lines) <= preambleLines {
		return false, nil
	}
	header := lines[preambleLines]
	return strings.Contains(header, "Rec") && strings.Contains(header, "TestTime") &&
		strings.Contains(header, "\t"), nil
}

// Import parses a MIMS export into a Run
func (i *TextImporter) Import(ctx context.Context, path string, opts importer.Options) (*echem.Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading file", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	if len(lines) <= preambleLines+2 {
		return nil, errors.Parsef("%s is too short to be a MIMS export", path)
	}

	frame, err := parseTable(lines[preambleLines], lines[preambleLines+2:])
	if err != nil {
		return nil, err
	}
	if opts.MaxPoints > 0 && frame.Len() > opts.MaxPoints {
		stride := (frame.Len() + opts.MaxPoints - 1) / opts.MaxPoints
		frame = frame.Downsample(stride)
	}

	run, err := echem.NewRun(path, frame, echem.Metadata{
		Technique: echem.TechniqueCycling,
		Mass:      opts.Mass,
	})
	if err != nil {
		return nil, err
	}
	logging.Info("imported maccor file",
		zap.String("path", path),
		zap.Int("samples", run.Data().Len()))
	return run, nil
}

// parseTable reads the tab-separated data rows and normalizes them to
// the shared column set
func parseTable(headerLine string, dataLines []string) (*series.Frame, error) {
	labels := strings.Split(strings.TrimRight(headerLine, "\r\t "), "\t")
	idx := make(map[string]int, len(labels))
	for i, label := range labels {
		idx[strings.TrimSpace(label)] = i
	}
	for _, required := range []string{"Rec", "TestTime", "Current [A]", "Voltage [V]"} {
		if _, ok := idx[required]; !ok {
			return nil, errors.Column(required, labels)
		}
	}
	modeIdx, hasMode := idx["Md"]
	cycleIdx, hasCycle := idx["Cycle C"]

	var seconds, currents, potentials, cycles []float64
	for lineNo, line := range dataLines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < len(labels) {
			return nil, errors.Parsef("line %d has %d fields, header has %d",
				preambleLines+3+lineNo, len(fields), len(labels))
		}

		minutes, err := strconv.ParseFloat(strings.TrimSpace(fields[idx["TestTime"]]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.TypeParse, "bad TestTime", err)
		}
		current, err := strconv.ParseFloat(strings.TrimSpace(fields[idx["Current [A]"]]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.TypeParse, "bad current", err)
		}
		potential, err := strconv.ParseFloat(strings.TrimSpace(fields[idx["Voltage [V]"]]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.TypeParse, "bad voltage", err)
		}

		// Discharge rows are flagged, not signed
		if hasMode && strings.TrimSpace(fields[modeIdx]) == "D" {
			current = -current
		}

		cycle := 0.0
		if hasCycle {
			if cycle, err = strconv.ParseFloat(strings.TrimSpace(fields[cycleIdx]), 64); err != nil {
				return nil, errors.Wrap(errors.TypeParse, "bad cycle counter", err)
			}
		}

		seconds = append(seconds, minutes*60)
		currents = append(currents, current*1000)
		potentials = append(potentials, potential)
		cycles = append(cycles, cycle)
	}
	if len(seconds) == 0 {
		return nil, errors.Parsef("no data rows")
	}

	// Integrate current over time for the net and total charge passed.
	// A·s to mA·h is a factor of 3.6.
	amps := make([]float64, len(currents))
	for i, mA := range currents {
		amps[i] = mA / 1000
	}
	net := series.Integrate(seconds, amps, false)
	total := series.Integrate(seconds, amps, true)
	for i := range net {
		net[i] /= 3.6
		total[i] /= 3.6
	}

	columns := []*series.Column{
		{Label: echem.ColTime, Unit: units.Second, Values: seconds},
		{Label: echem.ColPotential, Unit: units.Volt, Values: potentials},
		{Label: echem.ColCurrent, Unit: units.Milliampere, Values: currents},
		{Label: echem.ColCharge, Unit: units.MilliampereHour, Values: net},
		{Label: ColTotalCharge, Unit: units.MilliampereHour, Values: total},
	}
	if hasCycle {
		columns = append(columns, &series.Column{Label: echem.ColCycle, Values: cycles})
	}
	return series.NewFrame(columns...)
}

func init() {
	if err := importer.Register(New()); err != nil {
		panic(err)
	}
}
