// Package registry holds the static table of registered test suites.
//
// The registry is read-only configuration data: it is constructed once at
// startup from a YAML file and handed to the coordinator explicitly, so
// tests can substitute a fake table without touching globals.
package registry

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/conductor-ci/conductor/types"
)

// UnknownSuiteError signals a lookup for a suite identifier that is not
// registered. It is a configuration error and non-fatal to a run.
type UnknownSuiteError struct {
	ID    string
	Known []string
}

func (e *UnknownSuiteError) Error() string {
	return fmt.Sprintf("unknown suite %q (registered: %s)", e.ID, strings.Join(e.Known, ", "))
}

// Registry manages suite specs in their declaration order
type Registry struct {
	config Config
	suites []types.SuiteSpec
	index  map[string]int
}

// Config contains registry configuration
type Config struct {
	Log              logrus.FieldLogger
	SuitesConfigFile string
	DefaultDuration  time.Duration // Expected duration applied when a suite declares none
}

// NewRegistry creates a new registry instance from a suites YAML file
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.SuitesConfigFile == "" {
		return nil, fmt.Errorf("suites config file is required")
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
		cfg.Log.Error("No logger provided, using default")
	}

	file, err := loadSuitesFile(cfg.SuitesConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load suites config: %w", err)
	}

	r := &Registry{config: cfg}
	if err := r.build(file); err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	cfg.Log.WithField("suites", len(r.suites)).Debug("Registry loaded")

	return r, nil
}

// NewRegistryFromSpecs builds a registry from already-constructed specs.
// Intended for tests and embedded defaults.
func NewRegistryFromSpecs(cfg Config, specs []types.SuiteSpec) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	r := &Registry{
		config: cfg,
		index:  make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if _, dup := r.index[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate suite id %q", spec.ID)
		}
		r.index[spec.ID] = len(r.suites)
		r.suites = append(r.suites, spec)
	}
	return r, nil
}

// build converts validated config entries into immutable specs
func (r *Registry) build(file *types.SuitesFile) error {
	r.index = make(map[string]int, len(file.Suites))

	for _, cfg := range file.Suites {
		if _, dup := r.index[cfg.ID]; dup {
			return fmt.Errorf("duplicate suite id %q", cfg.ID)
		}

		expected := time.Duration(cfg.ExpectedDuration * float64(time.Second))
		if expected == 0 {
			expected = r.config.DefaultDuration
		}

		r.index[cfg.ID] = len(r.suites)
		r.suites = append(r.suites, types.SuiteSpec{
			ID:               cfg.ID,
			Name:             cfg.Name,
			Description:      cfg.Description,
			Path:             cfg.Path,
			ExpectedDuration: expected,
			Fixtures:         cfg.Fixtures,
		})
	}

	return nil
}

// Get returns the spec for a suite identifier, or an UnknownSuiteError.
func (r *Registry) Get(id string) (types.SuiteSpec, error) {
	if i, ok := r.index[id]; ok {
		return r.suites[i], nil
	}
	return types.SuiteSpec{}, &UnknownSuiteError{ID: id, Known: r.IDs()}
}

// All returns every registered spec in declaration order.
func (r *Registry) All() []types.SuiteSpec {
	out := make([]types.SuiteSpec, len(r.suites))
	copy(out, r.suites)
	return out
}

// IDs returns the registered suite identifiers in declaration order.
func (r *Registry) IDs() []string {
	return lo.Map(r.suites, func(s types.SuiteSpec, _ int) string { return s.ID })
}

// Len returns the number of registered suites.
func (r *Registry) Len() int {
	return len(r.suites)
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}

// loadSuitesFile reads, decodes and validates a suites config file
func loadSuitesFile(path string) (*types.SuitesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var file types.SuitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return &file, nil
}
