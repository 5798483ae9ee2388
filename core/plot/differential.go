package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"galvanokit/core/echem"
	"galvanokit/internal/errors"
)

// DifferentialCapacity builds a chart of the differential capacity
// d(Q-Qo)/dE against potential, one dashed line per cycle. The run must
// carry the vendor's differential column.
func DifferentialCapacity(run *echem.Run) (*plot.Plot, error) {
	p := plot.New()
	p.Legend.Top = true

	for i, cycle := range run.Cycles() {
		xys, xLabel, yLabel, err := cycleXYs(cycle.Data(), echem.ColPotential, echem.ColDifferential)
		if err != nil {
			return nil, err
		}
		p.X.Label.Text = xLabel
		p.Y.Label.Text = yLabel

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrap(errors.TypePlot, "building differential line", err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Cycle %d", cycle.Number), line)
	}
	return p, nil
}

// SaveDifferential renders the capacity curves and the differential
// capacity side by side. The paired layout writes PNG only.
func SaveDifferential(run *echem.Run, opts Options, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return errors.Newf(errors.TypeInput, "paired differential chart supports png only, got %s", path)
	}

	capPlot, err := Cycles(run, Options{
		X:     echem.ColCapacity,
		Y:     echem.ColPotential,
		Title: opts.Title,
	})
	if err != nil {
		return err
	}
	diffPlot, err := DifferentialCapacity(run)
	if err != nil {
		return err
	}

	w, h := opts.size()
	img := vgimg.New(2*w, h)
	dc := draw.New(img)
	panels := [][]*plot.Plot{{capPlot, diffPlot}}
	canvases := plot.Align(panels, draw.Tiles{Rows: 1, Cols: 2}, dc)
	capPlot.Draw(canvases[0][0])
	diffPlot.Draw(canvases[0][1])

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
