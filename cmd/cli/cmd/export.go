// Package cmd - export command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"galvanokit/core/importer"
	"galvanokit/core/report"
)

var (
	exportFormat string
	exportOut    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a cycling export for other tools",
	Long: `Import a data file and write it back out in a machine-readable
format: json for the run summary, csv for the normalized sample table.

Examples:
  galvanokit export --format csv cell4.mpt
  galvanokit export --format json -o cell4.json cell4.mpt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (json, csv)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}

	opts, err := importOptions()
	if err != nil {
		return err
	}
	run, err := importer.Load(ctx, path, opts)
	if err != nil {
		return err
	}

	formatter, err := report.For(report.Format(exportFormat))
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return formatter.Render(out, run)
}
