package report

import (
	"encoding/json"
	"io"

	"galvanokit/core/echem"
	"galvanokit/internal/errors"
)

// JSONFormatter renders a summary as indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render produces output for the given run
func (f *JSONFormatter) Render(w io.Writer, run *echem.Run) error {
	s, err := Summarize(run)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.TypeInternal, "encoding summary", err)
	}
	return nil
}
