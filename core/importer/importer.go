// Package importer defines the interface for experiment file importers.
// Importers parse vendor cycler exports into Runs. No plotting or
// reporting logic belongs here.
package importer

import (
	"context"

	"galvanokit/core/echem"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// Options adjust how a file is imported
type Options struct {
	// Mass is the active material mass. When set it takes precedence
	// over any mass found in the file headers. The Quantity type makes
	// a unitless mass unrepresentable.
	Mass units.Quantity

	// MaxPoints caps the number of samples kept. Larger files are
	// downsampled with a fixed stride. Zero keeps everything.
	MaxPoints int
}

// Validate rejects option combinations the importers cannot honor
func (o Options) Validate() error {
	if !o.Mass.IsZero() && o.Mass.Unit().Dim != units.MassDim {
		return errors.Unitf("mass option has dimension of %s, not mass", o.Mass.Unit())
	}
	if o.MaxPoints < 0 {
		return errors.Input("max points must not be negative")
	}
	return nil
}

// Importer parses one vendor's export format into a Run
type Importer interface {
	// Name returns the importer identifier
	Name() string

	// CanImport determines if this importer recognizes the file
	CanImport(ctx context.Context, path string) (bool, error)

	// Import parses the file into a run. A malformed file yields an
	// error and no run, never a partial run.
	Import(ctx context.Context, path string, opts Options) (*echem.Run, error)
}
