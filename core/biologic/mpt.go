// Package biologic imports text exports from BioLogic's EC-Lab
// software (.mpt files). The preamble carries experiment metadata
// (active mass, programmed currents, theoretical capacity, start time)
// and is followed by a tab-separated sample table.
package biologic

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"galvanokit/core/echem"
	"galvanokit/core/importer"
	"galvanokit/core/series"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
	"galvanokit/internal/logging"
)

// magic is the first line of every EC-Lab ASCII export
const magic = "EC-Lab ASCII FILE"

// MPTImporter imports EC-Lab .mpt exports
type MPTImporter struct{}

// New creates an MPT importer
func New() *MPTImporter {
	return &MPTImporter{}
}

// Name returns the importer identifier
func (i *MPTImporter) Name() string {
	return "biologic-mpt"
}

// CanImport recognizes files by the .mpt extension
func (i *MPTImporter) CanImport(ctx context.Context, path string) (bool, error) {
	return strings.EqualFold(filepath.Ext(path), ".mpt"), nil
}

// Import parses an .mpt file into a cycling Run
func (i *MPTImporter) Import(ctx context.Context, path string, opts Options) (*echem.Run, error) {
	return importRun(ctx, path, opts)
}

// Options is the shared importer option set
type Options = importer.Options

// requiredColumns must be present in every run. Cycle counter and net
// charge are optional: a file without them imports as one cycle with no
// derived capacity.
var requiredColumns = []string{echem.ColTime, echem.ColPotential, echem.ColCurrent}

func importRun(ctx context.Context, path string, opts Options) (*echem.Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	h, frame, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	for _, col := range requiredColumns {
		if !frame.Has(col) {
			return nil, errors.Column(col, frame.Labels())
		}
	}

	frame = capPoints(frame, opts.MaxPoints)

	meta := echem.Metadata{
		Technique:           h.techniqueOf(),
		Mass:                h.mass,
		StartTime:           h.startTime,
		ChargeCurrent:       h.chargeCurrent,
		DischargeCurrent:    h.dischargeCurrent,
		TheoreticalCapacity: h.theoreticalCapacity,
	}
	// An explicit mass wins over the file header
	if !opts.Mass.IsZero() {
		meta.Mass = opts.Mass
	}

	run, err := echem.NewRun(path, frame, meta)
	if err != nil {
		return nil, err
	}

	logging.Info("imported mpt file",
		zap.String("path", path),
		zap.Int("samples", run.Data().Len()),
		zap.Int("cycles", len(run.Cycles())),
		zap.Duration("elapsed", time.Since(start)))
	return run, nil
}

// ImportVoltammogram parses an .mpt cyclic voltammetry export. Same
// contract as Import, specialized to the voltammogram type.
func ImportVoltammogram(ctx context.Context, path string, opts Options) (*echem.Voltammogram, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	h, frame, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	for _, col := range requiredColumns {
		if !frame.Has(col) {
			return nil, errors.Column(col, frame.Labels())
		}
	}
	frame = capPoints(frame, opts.MaxPoints)

	meta := echem.Metadata{
		Mass:      h.mass,
		StartTime: h.startTime,
	}
	if !opts.Mass.IsZero() {
		meta.Mass = opts.Mass
	}
	return echem.NewVoltammogram(path, frame, meta)
}

// capPoints downsamples oversized frames with a fixed stride
func capPoints(frame *series.Frame, maxPoints int) *series.Frame {
	if maxPoints <= 0 || frame.Len() <= maxPoints {
		return frame
	}
	stride := (frame.Len() + maxPoints - 1) / maxPoints
	return frame.Downsample(stride)
}

// parseFile reads, decodes and splits an .mpt file into header metadata
// and the sample frame
func parseFile(path string) (*header, *series.Frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.TypeInput, "reading file", err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}
	lines := strings.Split(text, "\n")

	if len(lines) < 2 || strings.TrimSpace(strings.TrimPrefix(lines[0], "\uFEFF")) != magic {
		return nil, nil, errors.Parsef("%s is not an EC-Lab ASCII file", path)
	}
	nHeader, err := lineCount(lines[1])
	if err != nil {
		return nil, nil, err
	}
	if nHeader < 3 || nHeader > len(lines) {
		return nil, nil, errors.Parsef("header claims %d lines, file has %d", nHeader, len(lines))
	}

	h, err := parseHeader(lines[:nHeader-1])
	if err != nil {
		return nil, nil, err
	}

	// Line nHeader (1-based) is the column header, data follows
	frame, err := parseTable(lines[nHeader-1], lines[nHeader:])
	if err != nil {
		return nil, nil, err
	}
	return h, frame, nil
}

// decode turns file bytes into text. EC-Lab historically wrote latin-1;
// newer versions write UTF-8.
func decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(errors.TypeParse, "decoding file", err)
	}
	return string(text), nil
}

// parseTable reads the tab-separated sample table. Decimal commas are
// accepted, blank or short fields become NaN.
func parseTable(headerLine string, dataLines []string) (*series.Frame, error) {
	labels := strings.Split(strings.TrimRight(headerLine, "\r\t "), "\t")
	if len(labels) < 2 {
		return nil, errors.Parsef("sample table header has %d columns", len(labels))
	}
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}

	values := make([][]float64, len(labels))
	row := 0
	for lineNo, line := range dataLines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) > len(labels) {
			return nil, errors.Parsef("line %d has %d fields, table has %d columns",
				lineNo+1, len(fields), len(labels))
		}
		for col := range labels {
			v := math.NaN()
			if col < len(fields) {
				if parsed, err := parseNumber(fields[col]); err == nil {
					v = parsed
				} else if strings.TrimSpace(fields[col]) != "" {
					return nil, errors.Parsef("line %d, column %q: bad number %q",
						lineNo+1, labels[col], fields[col])
				}
			}
			values[col] = append(values[col], v)
		}
		row++
	}
	if row == 0 {
		return nil, errors.Parsef("sample table has no rows")
	}

	columns := make([]*series.Column, len(labels))
	for i, label := range labels {
		columns[i] = &series.Column{
			Label:  label,
			Unit:   columnUnit(label),
			Values: values[i],
		}
	}
	return series.NewFrame(columns...)
}

// parseNumber reads one table field, normalizing decimal commas
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// columnUnit derives a column's unit from the vendor label suffix,
// e.g. "Ewe/V" is volts and "(Q-Qo)/mA.h" is milliamp hours
func columnUnit(label string) units.Unit {
	idx := strings.LastIndex(label, "/")
	if idx < 0 || idx == len(label)-1 {
		return units.Unit{}
	}
	u, err := units.ParseUnit(label[idx+1:])
	if err != nil {
		return units.Unit{}
	}
	return u
}

func init() {
	if err := importer.Register(New()); err != nil {
		panic(err)
	}
}
