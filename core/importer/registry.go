// Package importer - Registry for importer implementations
package importer

import (
	"context"
	"sync"

	"galvanokit/core/echem"
	"galvanokit/internal/errors"
)

// Registry manages importer registration and lookup
type Registry interface {
	// Register adds an importer to the registry
	Register(imp Importer) error

	// GetImporter returns an importer by name
	GetImporter(name string) (Importer, bool)

	// GetAll returns all registered importers
	GetAll() []Importer

	// Detect returns the importer that recognizes the file
	Detect(ctx context.Context, path string) (Importer, error)

	// DetectAndImport finds the appropriate importer and runs it
	DetectAndImport(ctx context.Context, path string, opts Options) (*echem.Run, error)
}

// DefaultRegistry is the default importer registry implementation
type DefaultRegistry struct {
	mu        sync.RWMutex
	importers map[string]Importer
	order     []string // maintains registration order for priority
}

// NewRegistry creates a new importer registry
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		importers: make(map[string]Importer),
		order:     make([]string, 0),
	}
}

// Register adds an importer to the registry
func (r *DefaultRegistry) Register(imp Importer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := imp.Name()
	if _, exists := r.importers[name]; exists {
		return errors.Newf(errors.TypeInternal, "importer already registered: %s", name)
	}

	r.importers[name] = imp
	r.order = append(r.order, name)
	return nil
}

// GetImporter returns an importer by name
func (r *DefaultRegistry) GetImporter(name string) (Importer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imp, ok := r.importers[name]
	return imp, ok
}

// GetAll returns all registered importers in registration order
func (r *DefaultRegistry) GetAll() []Importer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	importers := make([]Importer, 0, len(r.order))
	for _, name := range r.order {
		if imp, ok := r.importers[name]; ok {
			importers = append(importers, imp)
		}
	}
	return importers
}

// Detect returns the first importer that recognizes the file
func (r *DefaultRegistry) Detect(ctx context.Context, path string) (Importer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		imp := r.importers[name]

		ok, err := imp.CanImport(ctx, path)
		if err != nil {
			continue // Skip importers that error on detection
		}
		if ok {
			return imp, nil
		}
	}
	return nil, errors.Format(path, "no importer recognizes this file")
}

// DetectAndImport finds the first importer that recognizes the file and
// runs it
func (r *DefaultRegistry) DetectAndImport(ctx context.Context, path string, opts Options) (*echem.Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	imp, err := r.Detect(ctx, path)
	if err != nil {
		return nil, err
	}
	return imp.Import(ctx, path, opts)
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register adds an importer to the default registry
func Register(imp Importer) error {
	return defaultRegistry.Register(imp)
}

// GetDefault returns the default registry
func GetDefault() *DefaultRegistry {
	return defaultRegistry
}

// Detect finds the importer for a file through the default registry
func Detect(ctx context.Context, path string) (Importer, error) {
	return defaultRegistry.Detect(ctx, path)
}

// Load imports a file through the default registry
func Load(ctx context.Context, path string, opts Options) (*echem.Run, error) {
	return defaultRegistry.DetectAndImport(ctx, path, opts)
}
