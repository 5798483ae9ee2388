// Package chinstruments imports text exports from CH Instruments
// potentiostats. The format is headed by an end-of-experiment timestamp
// and a metadata block, followed by comma-separated data segments, each
// with its own column header. Segments recorded under current or
// potential control omit the constant column; it is reconstructed from
// the programmed values in the metadata block.
package chinstruments

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"galvanokit/core/echem"
	"galvanokit/core/importer"
	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
	"galvanokit/internal/logging"
)

// timestampLayout matches the first line of every CHI export,
// e.g. "Apr. 07, 2021   16:33:02"
const timestampLayout = "Jan. 02, 2006   15:04:05"

// segmentHeaderRe recognizes a segment's column header line,
// e.g. "Time/sec, Current/A" or "Hold Time/sec, Current/A"
var segmentHeaderRe = regexp.MustCompile(`^([a-z ]+/[a-z]+,? ?)+`)

// CHImporter imports CH Instruments text exports
type CHImporter struct{}

// New creates a CH Instruments importer
func New() *CHImporter {
	return &CHImporter{}
}

// Name returns the importer identifier
func (i *CHImporter) Name() string {
	return "chinstruments"
}

// CanImport probes the first line for the CHI timestamp
func (i *CHImporter) CanImport(ctx context.Context, path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 64)
	n, _ := f.Read(buf)
	line, _, _ := strings.Cut(string(buf[:n]), "\n")
	_, err = time.Parse(timestampLayout, strings.TrimSpace(line))
	return err == nil, nil
}

// Import parses a single CHI export into a Run
func (i *CHImporter) Import(ctx context.Context, path string, opts importer.Options) (*echem.Run, error) {
	return ImportFiles(ctx, []string{path}, opts)
}

// sample is one reconstructed data point on the absolute time axis
type sample struct {
	ts        time.Time
	current   float64 // amperes
	potential float64 // volts
}

// ImportFiles parses one or more CHI exports and concatenates them in
// time order. Formation and cycling are often exported separately;
// importing them together yields one continuous run.
func ImportFiles(ctx context.Context, paths []string, opts importer.Options) (*echem.Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Input("no files to import")
	}

	var all []sample
	var technique string
	var meta map[string]string
	for _, path := range paths {
		parsed, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, parsed.samples...)
		technique = parsed.technique
		meta = parsed.metadata
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].ts.Before(all[b].ts) })

	frame, start, err := buildFrame(all)
	if err != nil {
		return nil, err
	}
	frame = capFrame(frame, opts.MaxPoints)

	runMeta := echem.Metadata{
		Technique: techniqueOf(technique),
		Mass:      opts.Mass,
		StartTime: start,
	}
	runMeta.ChargeCurrent, runMeta.DischargeCurrent = programmedCurrents(meta)

	run, err := echem.NewRun(paths[0], frame, runMeta)
	if err != nil {
		return nil, err
	}
	logging.Named("chinstruments").Info("imported files",
		zap.Strings("paths", paths),
		zap.Int("samples", run.Data().Len()))
	return run, nil
}

func capFrame(frame *series.Frame, maxPoints int) *series.Frame {
	if maxPoints <= 0 || frame.Len() <= maxPoints {
		return frame
	}
	stride := (frame.Len() + maxPoints - 1) / maxPoints
	return frame.Downsample(stride)
}

func techniqueOf(technique string) echem.Technique {
	if strings.Contains(strings.ToLower(technique), "voltammetry") {
		return echem.TechniqueVoltammetry
	}
	return echem.TechniqueCycling
}

// programmedCurrents reads the anodic and cathodic currents from the
// metadata block; discharge is negative by convention
func programmedCurrents(meta map[string]string) (charge, discharge units.Quantity) {
	if v, err := strconv.ParseFloat(meta["Anodic Current (A)"], 64); err == nil {
		charge = units.NewFromFloat(v, units.Ampere)
	}
	if v, err := strconv.ParseFloat(meta["Cathodic Current (A)"], 64); err == nil {
		discharge = units.NewFromFloat(-v, units.Ampere)
	}
	return charge, discharge
}

// buildFrame turns absolute-time samples into the normalized frame.
// Net charge is integrated from the current so specific capacity can be
// derived when a mass is supplied.
func buildFrame(all []sample) (*series.Frame, time.Time, error) {
	if len(all) == 0 {
		return nil, time.Time{}, errors.Parsef("no data segments found")
	}
	start := all[0].ts

	seconds := make([]float64, len(all))
	currents := make([]float64, len(all)) // mA
	amps := make([]float64, len(all))
	potentials := make([]float64, len(all))
	for i, s := range all {
		seconds[i] = s.ts.Sub(start).Seconds()
		amps[i] = s.current
		currents[i] = s.current * 1000
		potentials[i] = s.potential
	}

	// A·s to mA·h
	netCharge := series.Integrate(seconds, amps, false)
	for i := range netCharge {
		netCharge[i] /= 3.6
	}

	frame, err := series.NewFrame(
		&series.Column{Label: echem.ColTime, Unit: units.Second, Values: seconds},
		&series.Column{Label: echem.ColPotential, Unit: units.Volt, Values: potentials},
		&series.Column{Label: echem.ColCurrent, Unit: units.Milliampere, Values: currents},
		&series.Column{Label: echem.ColCharge, Unit: units.MilliampereHour, Values: netCharge},
	)
	if err != nil {
		return nil, time.Time{}, err
	}
	return frame, start, nil
}

func init() {
	if err := importer.Register(New()); err != nil {
		panic(err)
	}
}
