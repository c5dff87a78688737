package types

import "time"

// SuiteSpec describes a registered test suite. Specs are loaded once at
// startup and never mutated afterwards.
type SuiteSpec struct {
	ID               string        // Unique suite identifier (registry key)
	Name             string        // Human readable display name
	Description      string        // Short description for reports
	Path             string        // Location of the suite's tests, relative to the work directory
	ExpectedDuration time.Duration // Rough expected wall-clock duration
	Fixtures         []string      // Declared fixture requirements; informational only, not enforced
}

// SuiteConfig is the YAML shape of a single suite entry in the suites file.
type SuiteConfig struct {
	ID               string   `yaml:"id" validate:"required"`
	Name             string   `yaml:"name" validate:"required"`
	Description      string   `yaml:"description,omitempty"`
	Path             string   `yaml:"path" validate:"required"`
	ExpectedDuration float64  `yaml:"expected_duration,omitempty" validate:"gte=0"`
	Fixtures         []string `yaml:"fixtures,omitempty"`
}

// SuitesFile is the top-level YAML document listing all registered suites.
type SuitesFile struct {
	Suites []SuiteConfig `yaml:"suites" validate:"required,min=1,dive"`
}
