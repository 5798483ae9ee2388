// Package cmd provides the CLI commands for galvanokit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"galvanokit/core/importer"
	"galvanokit/core/units"
	"galvanokit/internal/config"
	"galvanokit/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	massSpec  string
	maxPoints int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "galvanokit",
	Short: "Import and analyze battery cycling data",
	Long: `galvanokit reads electrochemistry exports and turns them into
cycle-level capacity figures, charts, and machine-readable reports.

Supported formats are detected from the file itself: BioLogic EC-Lab
.mpt exports, CH Instruments text exports, and Maccor text exports.

Examples:
  galvanokit info cell4.mpt
  galvanokit info --mass "22.53 mg" --format json cell4.mpt
  galvanokit plot --capacities --efficiency -o cell4.png cell4.mpt
  galvanokit export --format csv cell4.mpt`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.galvanokit.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&massSpec, "mass", "m", "", `active material mass with unit, e.g. "22.53 mg" (overrides the file header)`)
	rootCmd.PersistentFlags().IntVar(&maxPoints, "max-points", 0, "downsample runs above this many samples (0 uses the configured default)")

	// Add subcommands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// importOptions builds importer options from the global flags and the
// active config
func importOptions() (importer.Options, error) {
	opts := importer.Options{MaxPoints: config.Get().Import.MaxPoints}
	if maxPoints > 0 {
		opts.MaxPoints = maxPoints
	}
	if massSpec != "" {
		mass, err := units.Parse(massSpec)
		if err != nil {
			return importer.Options{}, err
		}
		opts.Mass = mass
	}
	return opts, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("galvanokit version 0.1.0")
	},
}
