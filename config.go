package conductor

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/conductor-ci/conductor/flags"
)

// Config holds the application configuration
type Config struct {
	SuitesConfig string        // Path to the suites YAML file
	TargetSuite  string        // Restrict the run to one suite; empty runs all
	WorkDir      string        // Directory the runner processes execute in
	RunnerBinary string        // Path to the external test runner
	ReportDir    string        // Directory the runner writes JSON reports into
	LogDir       string        // Directory to store captured suite output
	Timeout      time.Duration // Per-suite wall-clock bound
	Parallel     bool          // Parallelism hint for the runner
	Coverage     bool          // Request coverage collection
	Performance  bool          // Request benchmark-only mode
	HTMLReport   bool          // Render an HTML summary file
	Verbose      bool          // Increase output detail
	RunInterval  time.Duration // Interval between runs
	RunOnce      bool          // Exit after one run
	Log          logrus.FieldLogger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log logrus.FieldLogger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	suitesConfig := ctx.String(flags.SuitesConfig.Name)
	if suitesConfig == "" {
		return nil, errors.New("suites config file is required")
	}
	absSuitesConfig, err := filepath.Abs(suitesConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for suites config '%s': %w", suitesConfig, err)
	}

	workDir := ctx.String(flags.WorkDir.Name)
	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for work directory '%s': %w", workDir, err)
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	timeoutSeconds := ctx.Int(flags.Timeout.Name)
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", timeoutSeconds)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	return &Config{
		SuitesConfig: absSuitesConfig,
		TargetSuite:  ctx.String(flags.Suite.Name),
		WorkDir:      absWorkDir,
		RunnerBinary: ctx.String(flags.RunnerBinary.Name),
		ReportDir:    ctx.String(flags.ReportDir.Name),
		LogDir:       logDir,
		Timeout:      time.Duration(timeoutSeconds) * time.Second,
		Parallel:     ctx.Bool(flags.Parallel.Name),
		Coverage:     ctx.Bool(flags.Coverage.Name),
		Performance:  ctx.Bool(flags.Performance.Name),
		HTMLReport:   ctx.Bool(flags.HTMLReport.Name),
		Verbose:      ctx.Bool(flags.Verbose.Name),
		RunInterval:  runInterval,
		RunOnce:      runOnce,
		Log:          log,
	}, nil
}
