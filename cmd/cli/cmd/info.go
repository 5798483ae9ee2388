// Package cmd - info command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"galvanokit/core/importer"
	"galvanokit/core/report"
	"galvanokit/internal/config"
	"galvanokit/internal/logging"
)

var infoFormat string

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Summarize a cycling export",
	Long: `Import a data file and print its per-cycle capacities and
coulombic efficiencies.

Specific capacity (mAh/g) needs the active material mass; BioLogic
files usually carry it in the header, other formats need --mass.

Examples:
  galvanokit info cell4.mpt
  galvanokit info --mass "22.53 mg" discharge01.txt
  galvanokit info --format json cell4.mpt`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", "", "output format (cli, json)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}

	opts, err := importOptions()
	if err != nil {
		return err
	}

	logging.Info("Importing data file")
	run, err := importer.Load(ctx, path, opts)
	if err != nil {
		return err
	}

	cfg := config.Get()
	format := infoFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := report.For(report.Format(format))
	if err != nil {
		return err
	}
	if cli, ok := formatter.(*report.CLIFormatter); ok && !cfg.Output.ShowCycles {
		cli.HideCycles()
	}
	return formatter.Render(os.Stdout, run)
}
