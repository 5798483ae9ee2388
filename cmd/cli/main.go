// Package main is the entry point for the galvanokit CLI.
package main

import (
	"os"

	"galvanokit/cmd/cli/cmd"

	// Register the file format importers.
	_ "galvanokit/core/biologic"
	_ "galvanokit/core/chinstruments"
	_ "galvanokit/core/maccor"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
