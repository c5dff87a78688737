package runner

import "time"

// Suite execution constants
const (
	// DefaultSuiteTimeout is the per-suite wall-clock bound applied when
	// the configuration does not override it
	DefaultSuiteTimeout = 300 * time.Second

	// DefaultRunnerBinary is the external test runner invoked per suite
	DefaultRunnerBinary = "suite-runner"

	// Runner command line contract
	ReportFlag        = "--json-report"
	ParallelFlag      = "--parallel"
	CoverageFlag      = "--coverage"
	BenchmarkOnlyFlag = "--benchmark-only"
	VerboseFlag       = "--verbose"

	// ReportFileSuffix is appended to the suite ID to form the
	// suite-specific report filename
	ReportFileSuffix = ".json"
)

// failureMarkers are the stdout/stderr substrings used to distinguish an
// ordinary test failure from an abnormal crash when a suite exits
// non-zero. The structured report is authoritative whenever it parses.
var failureMarkers = []string{"FAILED", "FAIL:", "ERROR", "AssertionError"}
