// Package cmd - plot command
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"galvanokit/core/echem"
	"galvanokit/core/importer"
	"galvanokit/core/plot"
	"galvanokit/internal/config"
	"galvanokit/internal/logging"
)

var (
	plotX            string
	plotY            string
	plotOut          string
	plotCapacities   bool
	plotEfficiency   bool
	plotDifferential bool
	plotRates        bool
	plotRateCycle    int
)

// plotCmd represents the plot command
var plotCmd = &cobra.Command{
	Use:   "plot [files]",
	Short: "Chart a cycling export",
	Long: `Import a data file and render it as a chart.

By default each cycle is drawn as one line: capacity against potential
for cycling runs, potential against current for voltammograms. With
--capacities the chart shows capacity per cycle instead, and
--efficiency stacks the coulombic efficiency beneath it. With
--differential the capacity curves are paired with the differential
capacity d(Q-Qo)/dE. With --rates several files are compared: one point
per file, charge capacity against C-rate.

The output format follows the file extension (png, svg, pdf).

Examples:
  galvanokit plot cell4.mpt
  galvanokit plot --x "time/h" --y "Ewe/V" -o profile.svg cell4.mpt
  galvanokit plot --capacities --efficiency -o cycles.png cell4.mpt
  galvanokit plot --differential -o dqde.png cell4.mpt
  galvanokit plot --rates c10.mpt c4.mpt 1c.mpt 5c.mpt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotX, "x", "", "column for the x axis")
	plotCmd.Flags().StringVar(&plotY, "y", "", "column for the y axis")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output file (default <input>.png in the configured plot directory)")
	plotCmd.Flags().BoolVar(&plotCapacities, "capacities", false, "plot capacity per cycle instead of per-cycle curves")
	plotCmd.Flags().BoolVar(&plotEfficiency, "efficiency", false, "stack coulombic efficiency beneath the capacity chart")
	plotCmd.Flags().BoolVar(&plotDifferential, "differential", false, "pair the capacity curves with the differential capacity")
	plotCmd.Flags().BoolVar(&plotRates, "rates", false, "compare files by C-rate: one capacity point per file")
	plotCmd.Flags().IntVar(&plotRateCycle, "rate-cycle", 0, "cycle index used for the rate comparison")
	plotCmd.MarkFlagsMutuallyExclusive("capacities", "differential", "rates")
}

func runPlot(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	for _, path := range args {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
	}
	if plotEfficiency && !plotCapacities {
		return fmt.Errorf("--efficiency requires --capacities")
	}
	if len(args) > 1 && !plotRates {
		return fmt.Errorf("several files only combine with --rates")
	}

	opts, err := importOptions()
	if err != nil {
		return err
	}
	runs := make([]*echem.Run, 0, len(args))
	for _, path := range args {
		run, err := importer.Load(ctx, path, opts)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	cfg := config.Get()
	out := plotOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		out = filepath.Join(cfg.Plot.Directory, base+".png")
	}
	plotOpts := plot.Options{
		X:            plotX,
		Y:            plotY,
		WidthInches:  cfg.Plot.WidthInches,
		HeightInches: cfg.Plot.HeightInches,
	}

	switch {
	case plotRates:
		err = plot.SaveRateCapacities(runs, plotRateCycle, plotOpts, out)
	case plotDifferential:
		err = plot.SaveDifferential(runs[0], plotOpts, out)
	case plotCapacities:
		err = plot.SaveCapacities(runs[0], plot.Discharge, plotEfficiency, plotOpts, out)
	default:
		err = plot.SaveCycles(runs[0], plotOpts, out)
	}
	if err != nil {
		return err
	}

	logging.Info("Chart written")
	fmt.Printf("Wrote %s\n", out)
	return nil
}
