package plot

import (
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"galvanokit/core/echem"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// Direction selects which capacity to plot per cycle
type Direction string

const (
	// Charge plots the charge capacity
	Charge Direction = "charge"

	// Discharge plots the discharge capacity
	Discharge Direction = "discharge"
)

// Capacities builds a capacity-versus-cycle-number chart
func Capacities(run *echem.Run, direction Direction) (*plot.Plot, error) {
	var caps []float64
	var err error
	switch direction {
	case Charge:
		caps, err = capacityValues(run.ChargeCapacities())
	case Discharge:
		caps, err = capacityValues(run.DischargeCapacities())
	default:
		return nil, errors.Newf(errors.TypeInput, "direction %q not recognized", direction)
	}
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.X.Label.Text = "Cycle"
	p.Y.Label.Text = string(direction) + " capacity / " + run.CapacityUnit().Symbol

	xys := make(plotter.XYs, len(caps))
	for i, c := range caps {
		xys[i] = plotter.XY{X: float64(run.Cycles()[i].Number), Y: c}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, errors.Wrap(errors.TypePlot, "building capacity line", err)
	}
	line.Dashes = plotutil.Dashes(1)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add(string(direction)+" capacity", line, points)
	p.Legend.Top = true

	p.Y.Min = 0
	if len(caps) > 0 {
		p.Y.Max = 1.1 * floats.Max(caps)
	}
	return p, nil
}

// Efficiencies builds a coulombic-efficiency-versus-cycle chart
func Efficiencies(run *echem.Run) (*plot.Plot, error) {
	eff, err := run.CoulombicEfficiencies()
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.X.Label.Text = "Cycle"
	p.Y.Label.Text = "Coulombic efficiency (%)"
	p.Y.Min, p.Y.Max = 0, 105

	xys := make(plotter.XYs, len(eff))
	for i, e := range eff {
		xys[i] = plotter.XY{X: float64(run.Cycles()[i].Number), Y: e}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, errors.Wrap(errors.TypePlot, "building efficiency line", err)
	}
	line.Dashes = plotutil.Dashes(2)
	line.Color = plotutil.Color(2)
	points.Shape = draw.PyramidGlyph{}
	points.Color = plotutil.Color(2)
	p.Add(line, points)
	return p, nil
}

// SaveCapacities renders capacity per cycle, optionally with the
// coulombic efficiency stacked beneath it. The stacked layout writes
// PNG only.
func SaveCapacities(run *echem.Run, direction Direction, withEfficiency bool, opts Options, path string) error {
	capPlot, err := Capacities(run, direction)
	if err != nil {
		return err
	}
	w, h := opts.size()

	if !withEfficiency {
		if err := capPlot.Save(w, h, path); err != nil {
			return errors.Wrap(errors.TypePlot, "saving chart", err)
		}
		return nil
	}

	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return errors.Newf(errors.TypeInput, "stacked efficiency chart supports png only, got %s", path)
	}
	effPlot, err := Efficiencies(run)
	if err != nil {
		return err
	}

	img := vgimg.New(w, 2*h)
	dc := draw.New(img)
	rows := [][]*plot.Plot{{capPlot}, {effPlot}}
	canvases := plot.Align(rows, draw.Tiles{Rows: 2, Cols: 1}, dc)
	capPlot.Draw(canvases[0][0])
	effPlot.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.TypePlot, "creating chart file", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(errors.TypePlot, "writing chart", err)
	}
	return nil
}

// capacityValues strips units for plotting; all capacities in a run
// share the run's capacity unit
func capacityValues(qs []units.Quantity, err error) ([]float64, error) {
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = q.Float64()
	}
	return out, nil
}
