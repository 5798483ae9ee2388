package plot

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"galvanokit/core/echem"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// RateCapacities compares runs recorded at different C-rates: one point
// per run, the charge capacity of the selected cycle against the rate
// the run was charged at, on a logarithmic rate axis. The rate is the
// programmed charge current over the theoretical capacity, in inverse
// hours.
func RateCapacities(runs []*echem.Run, cycleIndex int) (*plot.Plot, error) {
	if len(runs) == 0 {
		return nil, errors.Input("no runs to compare")
	}

	xys := make(plotter.XYs, 0, len(runs))
	for _, run := range runs {
		rate, err := cRate(run)
		if err != nil {
			return nil, err
		}
		caps, err := run.ChargeCapacities()
		if err != nil {
			return nil, err
		}
		if cycleIndex < 0 || cycleIndex >= len(caps) {
			return nil, errors.Newf(errors.TypeInput, "%s has no cycle index %d", run.Source(), cycleIndex)
		}
		xys = append(xys, plotter.XY{X: rate, Y: caps[cycleIndex].Float64()})
	}
	sort.Slice(xys, func(a, b int) bool { return xys[a].X < xys[b].X })

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Rate capacities during cycle %d", cycleIndex+1)
	p.X.Label.Text = "C-rate / h⁻¹"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Label.Text = "Charge capacity / " + runs[0].CapacityUnit().Symbol
	p.Y.Min = 0

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, errors.Wrap(errors.TypePlot, "building rate line", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return p, nil
}

// SaveRateCapacities renders the rate comparison to a file. The format
// follows the extension (png, svg, pdf).
func SaveRateCapacities(runs []*echem.Run, cycleIndex int, opts Options, path string) error {
	p, err := RateCapacities(runs, cycleIndex)
	if err != nil {
		return err
	}
	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrap(errors.TypePlot, "saving chart", err)
	}
	return nil
}

// cRate places a run on the rate axis, in inverse hours
func cRate(run *echem.Run) (float64, error) {
	current := run.ChargeCurrent()
	capacity := run.TheoreticalCapacity()
	if current.IsZero() || capacity.IsZero() {
		return 0, errors.Newf(errors.TypeInput,
			"%s needs a charge current and a theoretical capacity for the rate axis", run.Source())
	}
	ma, err := current.Convert(units.Milliampere)
	if err != nil {
		return 0, err
	}
	mah, err := capacity.Convert(units.MilliampereHour)
	if err != nil {
		return 0, err
	}
	if mah.Float64() == 0 {
		return 0, errors.Newf(errors.TypeInput, "%s has zero theoretical capacity", run.Source())
	}
	return math.Abs(ma.Float64() / mah.Float64()), nil
}
