package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/conductor-ci/conductor/logging"
	"github.com/conductor-ci/conductor/metrics"
	"github.com/conductor-ci/conductor/registry"
	"github.com/conductor-ci/conductor/types"
)

// SuiteCoordinator sequences suite execution and builds the aggregate run
// report.
type SuiteCoordinator interface {
	// Run executes the configured selection of suites and returns the
	// finalized report. Per-suite failures are contained in the report;
	// the returned error is reserved for failures outside the suite loop.
	Run(ctx context.Context) (*types.RunReport, error)
}

// Config holds configuration for creating a new coordinator
type Config struct {
	Registry     *registry.Registry
	Process      ProcessRunner
	Log          logrus.FieldLogger
	FileLogger   *logging.FileLogger // Optional; suite output is persisted when set
	TargetSuite  string              // Restrict the run to one suite; empty runs all
	WorkDir      string              // Directory the runner processes execute in
	RunnerBinary string              // Path to the external test runner
	ReportDir    string              // Directory the runner writes JSON reports into
	CoverageDir  string              // Directory the runner writes coverage data into
	Parallel     bool                // Parallelism hint passed to the runner
	Coverage     bool                // Request coverage collection from the runner
	Performance  bool                // Request benchmark-only mode from the runner
	Verbose      bool                // Increase runner output detail
	Timeout      time.Duration       // Per-suite wall-clock bound
}

// coordinator implements SuiteCoordinator
type coordinator struct {
	cfg    Config
	log    logrus.FieldLogger
	runID  string
	tracer trace.Tracer
}

// NewCoordinator creates a new suite coordinator instance
func NewCoordinator(cfg Config) (SuiteCoordinator, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work directory is required")
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Process == nil {
		cfg.Process = NewProcessRunner()
	}
	if cfg.RunnerBinary == "" {
		cfg.RunnerBinary = DefaultRunnerBinary
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = filepath.Join(cfg.WorkDir, "reports")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultSuiteTimeout
	}

	cfg.Log.WithFields(logrus.Fields{
		"targetSuite":  cfg.TargetSuite,
		"workDir":      cfg.WorkDir,
		"runnerBinary": cfg.RunnerBinary,
		"timeout":      cfg.Timeout,
	}).Debug("NewCoordinator()")

	return &coordinator{
		cfg:    cfg,
		log:    cfg.Log,
		tracer: otel.Tracer("suite coordinator"),
	}, nil
}

// Select resolves the configured suite selection against the registry.
// An unknown suite name yields a warning and an empty selection; it never
// aborts the process at this level.
func (c *coordinator) Select() []types.SuiteSpec {
	if c.cfg.TargetSuite == "" {
		return c.cfg.Registry.All()
	}

	spec, err := c.cfg.Registry.Get(c.cfg.TargetSuite)
	if err != nil {
		unknownErr := &registry.UnknownSuiteError{}
		if errors.As(err, &unknownErr) {
			c.log.WithFields(logrus.Fields{
				"suite":      unknownErr.ID,
				"registered": strings.Join(unknownErr.Known, ", "),
			}).Warn("Unknown suite requested, skipping")
		} else {
			c.log.WithError(err).Warn("Suite lookup failed, skipping")
		}
		return nil
	}
	return []types.SuiteSpec{spec}
}

// Run implements the SuiteCoordinator interface
func (c *coordinator) Run(ctx context.Context) (*types.RunReport, error) {
	if c.cfg.FileLogger != nil {
		c.runID = c.cfg.FileLogger.GetRunID()
	} else {
		c.runID = uuid.New().String()
	}
	defer func() { c.runID = "" }()

	report := &types.RunReport{
		RunID:       c.runID,
		Start:       time.Now(),
		Environment: types.CaptureEnvironment(c.cfg.WorkDir),
	}

	if err := os.MkdirAll(c.cfg.ReportDir, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	selection := c.Select()
	c.log.WithFields(logrus.Fields{
		"run_id": c.runID,
		"suites": len(selection),
	}).Info("Running suites")

	for _, spec := range selection {
		if err := ctx.Err(); err != nil {
			// Interruption aborts the run; partial results stay recorded.
			report.Finalize()
			return report, err
		}

		result := c.RunSuite(ctx, spec)

		// A signal that lands while the suite's process is running kills
		// the process; the killed run must surface as an interruption,
		// not as a suite error on a successful run.
		if err := ctx.Err(); err != nil {
			report.Finalize()
			return report, err
		}

		report.AddSuite(result)

		metrics.RecordSuite(c.runID, spec.ID, result.Status)
		for _, id := range result.Order {
			metrics.RecordTest(c.runID, spec.ID, result.Tests[id].Status)
		}

		if c.cfg.FileLogger != nil {
			if err := c.cfg.FileLogger.WriteSuiteOutput(result); err != nil {
				c.log.WithError(err).Warn("Failed to persist suite output")
			}
		}
	}

	report.Finalize()
	metrics.RecordRun(c.runID, report.HasFailures(), report.Duration)
	return report, nil
}

// RunSuite executes one suite as an external process bounded by the
// configured timeout and classifies the outcome. All failures are
// captured into the returned SuiteResult; it never returns nil.
func (c *coordinator) RunSuite(ctx context.Context, spec types.SuiteSpec) *types.SuiteResult {
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("suite %s", spec.ID))
	defer span.End()

	reportPath := c.reportPath(spec)
	inv := c.buildInvocation(spec, reportPath)

	c.log.WithFields(logrus.Fields{
		"suite":   spec.ID,
		"command": inv.Binary + " " + strings.Join(inv.Args, " "),
		"timeout": inv.Timeout,
	}).Info("Running suite")

	// Stale reports from earlier runs must not masquerade as this run's.
	_ = os.Remove(reportPath)

	start := time.Now()
	res, err := c.cfg.Process.Run(ctx, inv)
	if err != nil {
		execErr := &SuiteExecutionError{SuiteID: spec.ID, Err: err}
		c.log.WithError(execErr).Error("Suite execution failed")
		return &types.SuiteResult{
			SuiteID:  spec.ID,
			Status:   types.SuiteStatusError,
			Duration: time.Since(start),
			Tests:    map[string]types.TestResult{},
			Error:    execErr.Error(),
			ExitCode: -1,
		}
	}

	if res.TimedOut {
		timeoutErr := &SuiteTimeoutError{SuiteID: spec.ID, Timeout: inv.Timeout}
		c.log.WithField("suite", spec.ID).WithField("timeout", inv.Timeout).Error("Suite timed out")
		return &types.SuiteResult{
			SuiteID:  spec.ID,
			Status:   types.SuiteStatusTimeout,
			Duration: res.Duration,
			Tests:    map[string]types.TestResult{},
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Error:    timeoutErr.Error(),
			ExitCode: res.ExitCode,
		}
	}

	result := &types.SuiteResult{
		SuiteID:  spec.ID,
		Duration: res.Duration,
		Tests:    map[string]types.TestResult{},
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}

	tests, order, reportErr := LoadReport(reportPath)
	if reportErr != nil {
		c.log.WithError(reportErr).WithField("suite", spec.ID).Warn("Structured report unavailable, inferring status from process outcome")
	} else {
		result.Tests = tests
		result.Order = order
	}

	result.Status = classifySuite(res.ExitCode, res.Stdout+res.Stderr)

	c.log.WithFields(logrus.Fields{
		"suite":    spec.ID,
		"status":   result.Status,
		"tests":    len(result.Tests),
		"duration": res.Duration,
	}).Debug("Suite completed")

	return result
}

// buildInvocation constructs the runner command line for a suite from its
// spec and the configured flags.
func (c *coordinator) buildInvocation(spec types.SuiteSpec, reportPath string) Invocation {
	args := []string{spec.Path, ReportFlag, reportPath}

	if c.cfg.Parallel {
		args = append(args, ParallelFlag)
	}
	if c.cfg.Coverage {
		args = append(args, CoverageFlag, filepath.Join(c.coverageDir(), spec.ID))
	}
	if c.cfg.Performance {
		args = append(args, BenchmarkOnlyFlag)
	}
	if c.cfg.Verbose {
		args = append(args, VerboseFlag)
	}

	return Invocation{
		Binary:  c.cfg.RunnerBinary,
		Args:    args,
		Dir:     c.cfg.WorkDir,
		Timeout: c.cfg.Timeout,
	}
}

func (c *coordinator) reportPath(spec types.SuiteSpec) string {
	return filepath.Join(c.cfg.ReportDir, spec.ID+ReportFileSuffix)
}

func (c *coordinator) coverageDir() string {
	if c.cfg.CoverageDir != "" {
		return c.cfg.CoverageDir
	}
	return filepath.Join(c.cfg.WorkDir, "coverage")
}

// classifySuite maps a completed process to a suite status: exit zero is
// passed; non-zero with failure markers in the output is an ordinary
// failure; any other non-zero exit is an abnormal error.
func classifySuite(exitCode int, output string) types.SuiteStatus {
	if exitCode == 0 {
		return types.SuiteStatusPassed
	}
	if containsFailureMarker(output) {
		return types.SuiteStatusFailed
	}
	return types.SuiteStatusError
}

func containsFailureMarker(output string) bool {
	for _, marker := range failureMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

var _ SuiteCoordinator = (*coordinator)(nil)
