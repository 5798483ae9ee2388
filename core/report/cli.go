package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"galvanokit/core/echem"
)

// CLIFormatter renders a summary as a terminal table
type CLIFormatter struct {
	colorize   bool
	showCycles bool
}

// NewCLIFormatter creates a terminal formatter. Colors can be disabled
// for non-tty output.
func NewCLIFormatter(colorize bool) *CLIFormatter {
	return &CLIFormatter{colorize: colorize, showCycles: true}
}

// HideCycles suppresses the per-cycle table
func (f *CLIFormatter) HideCycles() *CLIFormatter {
	f.showCycles = false
	return f
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render produces output for the given run
func (f *CLIFormatter) Render(w io.Writer, run *echem.Run) error {
	s, err := Summarize(run)
	if err != nil {
		return err
	}

	bold := f.sprintf(color.Bold)
	dim := f.sprintf(color.Faint)
	cyan := f.sprintf(color.FgCyan)

	fmt.Fprintln(w, bold("%s", s.Source))
	fmt.Fprintln(w, dim("report %s, generated %s", s.ReportID, s.GeneratedAt.Format(time.RFC3339)))
	fmt.Fprintln(w)

	rows := [][2]string{
		{"Technique", s.Technique},
		{"Points", fmt.Sprintf("%d", s.Points)},
	}
	if !s.StartTime.IsZero() {
		rows = append(rows, [2]string{"Started", s.StartTime.Format("2006-01-02 15:04:05")})
	}
	if s.Mass != "" {
		rows = append(rows, [2]string{"Active mass", s.Mass})
	}
	if s.TheoreticalCapacity != "" {
		rows = append(rows, [2]string{"Theoretical capacity", s.TheoreticalCapacity})
	}
	if s.ChargeCurrent != "" {
		rows = append(rows, [2]string{"Charge current", s.ChargeCurrent})
	}
	if s.DischargeCurrent != "" {
		rows = append(rows, [2]string{"Discharge current", s.DischargeCurrent})
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-22s %s\n", row[0], row[1])
	}

	if !f.showCycles || len(s.Cycles) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  %-7s %-8s %-14s %-14s %s",
		"Cycle", "Points",
		"Charge/"+s.CapacityUnit, "Discharge/"+s.CapacityUnit, "Eff."))
	fmt.Fprintln(w, dim("  %s", strings.Repeat("-", 54)))
	for _, c := range s.Cycles {
		fmt.Fprintf(w, "  %-7d %-8d %-14s %-14s %s\n",
			c.Number, c.Points,
			formatCell(c.ChargeCapacity, "%.3f"),
			formatCell(c.DischargeCapacity, "%.3f"),
			formatCell(c.Efficiency, "%.1f%%"))
	}
	return nil
}

// sprintf returns a formatter that applies the attribute when colors
// are on
func (f *CLIFormatter) sprintf(attr color.Attribute) func(string, ...interface{}) string {
	if !f.colorize {
		return fmt.Sprintf
	}
	return color.New(attr).Sprintf
}

func formatCell(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
