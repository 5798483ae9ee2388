// Package plot renders imported runs to chart files. It is a thin
// facade over gonum/plot: one line per cycle, axes picked from the run
// unless overridden. Writing the chart artifact is the only side
// effect.
package plot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"galvanokit/core/echem"
	"galvanokit/core/series"
	"galvanokit/internal/errors"
)

// Options adjust what and how to plot
type Options struct {
	// X and Y name the columns to plot. Empty picks defaults by
	// technique: capacity against potential for cycling runs,
	// potential against current for voltammograms.
	X string
	Y string

	// Title is the chart title, empty for none
	Title string

	// WidthInches and HeightInches size the chart; zero uses 6.25x5,
	// the proportions of a square plot with room for a legend
	WidthInches  float64
	HeightInches float64
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.WidthInches, o.HeightInches
	if h == 0 {
		h = 5
	}
	if w == 0 {
		w = h / 0.8
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// defaults fills in technique-appropriate axes
func (o Options) defaults(run *echem.Run) Options {
	if o.X == "" || o.Y == "" {
		switch run.Technique() {
		case echem.TechniqueVoltammetry:
			o.X, o.Y = echem.ColPotential, echem.ColCurrent
		default:
			o.X, o.Y = echem.ColCapacity, echem.ColPotential
		}
	}
	return o
}

// Cycles builds a chart with one line per cycle
func Cycles(run *echem.Run, opts Options) (*plot.Plot, error) {
	opts = opts.defaults(run)

	p := plot.New()
	p.Title.Text = opts.Title
	p.Legend.Top = true

	for i, cycle := range run.Cycles() {
		xys, xLabel, yLabel, err := cycleXYs(cycle.Data(), opts.X, opts.Y)
		if err != nil {
			return nil, err
		}
		p.X.Label.Text = xLabel
		p.Y.Label.Text = yLabel

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrap(errors.TypePlot, "building cycle line", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Cycle %d", cycle.Number), line)
	}
	return p, nil
}

// SaveCycles renders the cycle chart to a file. The format follows the
// extension (png, svg, pdf).
func SaveCycles(run *echem.Run, opts Options, path string) error {
	p, err := Cycles(run, opts)
	if err != nil {
		return err
	}
	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrap(errors.TypePlot, "saving chart", err)
	}
	return nil
}

// cycleXYs extracts one cycle's points, dropping rows where either
// coordinate is missing
func cycleXYs(frame *series.Frame, xLabel, yLabel string) (plotter.XYs, string, string, error) {
	xCol, err := frame.Column(xLabel)
	if err != nil {
		return nil, "", "", err
	}
	yCol, err := frame.Column(yLabel)
	if err != nil {
		return nil, "", "", err
	}

	xys := make(plotter.XYs, 0, len(xCol.Values))
	for i := range xCol.Values {
		x, y := xCol.Values[i], yCol.Values[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	return xys, axisLabel(xCol), axisLabel(yCol), nil
}

// axisLabel renders a column name for an axis
func axisLabel(col *series.Column) string {
	if col.Label == echem.ColCapacity {
		return "Capacity / " + col.Unit.Symbol
	}
	return col.Label
}
