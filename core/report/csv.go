package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"galvanokit/core/echem"
	"galvanokit/internal/errors"
)

// CSVFormatter renders the raw sample table as CSV
type CSVFormatter struct{}

// NewCSVFormatter creates a CSV formatter
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format returns the format type
func (f *CSVFormatter) Format() Format {
	return FormatCSV
}

// Render produces output for the given run
func (f *CSVFormatter) Render(w io.Writer, run *echem.Run) error {
	frame := run.Data()
	cols := frame.Columns()

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = csvHeader(col.Label, col.Unit.Symbol)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.TypeInternal, "writing csv header", err)
	}

	record := make([]string, len(cols))
	for row := 0; row < frame.Len(); row++ {
		for i, col := range cols {
			v := col.Values[row]
			if math.IsNaN(v) {
				record[i] = ""
				continue
			}
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.TypeInternal, "writing csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.TypeInternal, "flushing csv", err)
	}
	return nil
}

// csvHeader appends the unit to labels that do not already carry one
func csvHeader(label, symbol string) string {
	if symbol == "" || strings.Contains(label, "/") {
		return label
	}
	return label + "/" + symbol
}
