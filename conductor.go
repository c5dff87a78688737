// Package conductor sequences named test suites, invokes each as an
// external runner process with a bounded timeout, aggregates per-test
// results across suites, and renders console, HTML and coverage
// summaries.
package conductor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/conductor-ci/conductor/exitcodes"
	"github.com/conductor-ci/conductor/logging"
	"github.com/conductor-ci/conductor/registry"
	"github.com/conductor-ci/conductor/reporting"
	"github.com/conductor-ci/conductor/runner"
	"github.com/conductor-ci/conductor/types"
)

// Conductor runs suites once or on an interval and tracks the most
// recent run report.
type Conductor struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	process  runner.ProcessRunner
	report   *types.RunReport

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Conductor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.WithFields(map[string]interface{}{
		"suitesConfig": config.SuitesConfig,
		"targetSuite":  config.TargetSuite,
		"runInterval":  config.RunInterval,
		"runOnce":      config.RunOnce,
	}).Debug("Creating conductor with config")

	reg, err := registry.NewRegistry(registry.Config{
		Log:              config.Log,
		SuitesConfigFile: config.SuitesConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	// A named suite must exist up front: a typo should abort with the
	// list of registered choices rather than silently run nothing.
	if config.TargetSuite != "" {
		if _, err := reg.Get(config.TargetSuite); err != nil {
			return nil, err
		}
	}

	return &Conductor{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		process:          runner.NewProcessRunner(),
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Registry exposes the loaded suite table.
func (c *Conductor) Registry() *registry.Registry {
	return c.registry
}

// Report returns the most recent run report, or nil before the first run.
func (c *Conductor) Report() *types.RunReport {
	return c.report
}

// Start runs the suites immediately and, unless in run-once mode, keeps
// rerunning them at the configured interval.
func (c *Conductor) Start(ctx context.Context) error {
	c.ctx = ctx
	c.done = make(chan struct{})
	c.running.Store(true)

	if c.config.RunOnce {
		c.config.Log.Info("Starting conductor in run-once mode")
	} else {
		c.config.Log.WithField("interval", c.config.RunInterval).Info("Starting conductor in continuous mode")
	}

	err := c.runSuites()
	if err != nil {
		return err
	}

	if c.config.RunOnce {
		c.config.Log.Info("Run completed, exiting (run-once mode)")

		if c.report != nil && c.report.HasFailures() {
			c.config.Log.Warn("Run completed with failures, returning exit code 1")
			stats := c.report.Stats
			return NewTestFailureError(fmt.Sprintf("%d failed, %d errored of %d tests",
				stats.Failed, stats.Errored, stats.Total))
		}

		go func() {
			c.shutdownCallback(nil)
		}()
		return nil
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.config.Log.WithField("interval", c.config.RunInterval).Debug("Starting periodic runner goroutine")

		for {
			select {
			case <-time.After(c.config.RunInterval):
				if !c.running.Load() {
					c.config.Log.Debug("Service stopped, exiting periodic runner")
					return
				}
				c.config.Log.Info("Running periodic suites")
				if err := c.runSuites(); err != nil {
					c.config.Log.WithError(err).Error("Error running periodic suites")
				}

			case <-c.done:
				c.config.Log.Debug("Done signal received, stopping periodic runner")
				return

			case <-ctx.Done():
				c.config.Log.Debug("Context canceled, stopping periodic runner")
				c.running.Store(false)
				return
			}
		}
	}()
	c.config.Log.Debug("conductor started successfully")
	return nil
}

// runSuites executes one full run and renders its outputs.
func (c *Conductor) runSuites() error {
	runID := uuid.New().String()

	fileLogger, err := logging.NewFileLogger(c.config.LogDir, runID)
	if err != nil {
		c.config.Log.WithError(err).Warn("Failed to create file logger, suite output will not be persisted")
		fileLogger = nil
	}

	coord, err := runner.NewCoordinator(runner.Config{
		Registry:     c.registry,
		Process:      c.process,
		Log:          c.config.Log,
		FileLogger:   fileLogger,
		TargetSuite:  c.config.TargetSuite,
		WorkDir:      c.config.WorkDir,
		RunnerBinary: c.config.RunnerBinary,
		ReportDir:    c.config.ReportDir,
		CoverageDir:  c.coverageDir(),
		Parallel:     c.config.Parallel,
		Coverage:     c.config.Coverage,
		Performance:  c.config.Performance,
		Verbose:      c.config.Verbose,
		Timeout:      c.config.Timeout,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	report, err := coord.Run(c.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.report = report
			return &InterruptedError{}
		}
		c.config.Log.WithError(err).Error("Runtime error running suites")
		return NewRuntimeError(err)
	}
	c.report = report

	c.renderOutputs(fileLogger)
	c.config.Log.WithFields(map[string]interface{}{
		"run_id":  report.RunID,
		"total":   report.Stats.Total,
		"passed":  report.Stats.Passed,
		"failed":  report.Stats.Failed,
		"errors":  report.Stats.Errored,
		"skipped": report.Stats.Skipped,
	}).Info("Run completed")
	return nil
}

// renderOutputs prints the console table and writes the optional
// summary, HTML and coverage artifacts.
func (c *Conductor) renderOutputs(fileLogger *logging.FileLogger) {
	fmt.Println(reporting.RenderTable(c.report, c.config.Verbose))
	fmt.Println(reporting.RenderText(c.report))

	if fileLogger != nil {
		if err := fileLogger.WriteSummary(reporting.RenderText(c.report)); err != nil {
			c.config.Log.WithError(err).Warn("Failed to write summary file")
		}
	}

	if c.config.HTMLReport {
		sink, err := reporting.NewHTMLSink()
		if err != nil {
			c.config.Log.WithError(err).Error("Failed to create HTML sink")
		} else {
			path := c.htmlReportPath(fileLogger)
			if err := sink.Write(c.report, path); err != nil {
				c.config.Log.WithError(err).Error("Failed to write HTML report")
			} else {
				c.config.Log.WithField("path", path).Info("HTML report written")
			}
		}
	}

	if c.config.Coverage {
		fmt.Println(reporting.CoverageSummary(c.report, c.coverageDir()))
	}
}

// coverageDir is where the runner deposits coverage data for this workdir.
func (c *Conductor) coverageDir() string {
	if !c.config.Coverage {
		return ""
	}
	return filepath.Join(c.config.WorkDir, "coverage")
}

func (c *Conductor) htmlReportPath(fileLogger *logging.FileLogger) string {
	if fileLogger != nil {
		return fileLogger.HTMLPath()
	}
	return filepath.Join(c.config.LogDir, logging.HTMLFilename)
}

// Stop stops the conductor service.
func (c *Conductor) Stop(ctx context.Context) error {
	c.config.Log.Info("Stopping conductor")

	if !c.running.Load() {
		c.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	c.running.Store(false)
	close(c.done)

	c.config.Log.Info("conductor stopped successfully")
	return nil
}

// Stopped returns true if the conductor service is stopped.
func (c *Conductor) Stopped() bool {
	return !c.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated.
// Useful in tests to ensure complete cleanup before moving on.
func (c *Conductor) WaitForShutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.config.Log.WithError(ctx.Err()).Warn("Timed out waiting for goroutines to terminate")
		return ctx.Err()
	}
}

// ExitCodeForError maps a top-level error to the process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return exitcodes.Success
	case IsInterruptedError(err) || errors.Is(err, context.Canceled):
		return exitcodes.Interrupted
	default:
		// Test failures and runtime errors share a code.
		return exitcodes.TestFailure
	}
}
