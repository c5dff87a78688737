package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "CONDUCTOR"

// prefixEnvVars prefixes every env var name with the application prefix.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	SuitesConfig = &cli.StringFlag{
		Name:     "suites-config",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("SUITES_CONFIG"),
		Usage:    "Path to the suites config file (eg. 'suites.yaml')",
	}
	Suite = &cli.StringFlag{
		Name:    "suite",
		Value:   "",
		EnvVars: prefixEnvVars("SUITE"),
		Usage:   "Restrict the run to one registered suite",
	}
	WorkDir = &cli.StringFlag{
		Name:    "workdir",
		Value:   ".",
		EnvVars: prefixEnvVars("WORKDIR"),
		Usage:   "Directory the runner processes execute in",
	}
	RunnerBinary = &cli.StringFlag{
		Name:    "runner-binary",
		Value:   "suite-runner",
		EnvVars: prefixEnvVars("RUNNER_BINARY"),
		Usage:   "Path to the external test runner binary",
	}
	ReportDir = &cli.StringFlag{
		Name:    "report-dir",
		Value:   "",
		EnvVars: prefixEnvVars("REPORT_DIR"),
		Usage:   "Directory the runner writes JSON reports into (default '<workdir>/reports')",
	}
	LogDir = &cli.StringFlag{
		Name:    "log-dir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOG_DIR"),
		Usage:   "Directory to store captured suite output",
	}
	Timeout = &cli.IntFlag{
		Name:    "timeout",
		Value:   300,
		EnvVars: prefixEnvVars("TIMEOUT"),
		Usage:   "Per-suite wall-clock bound in seconds",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		Value:   false,
		EnvVars: prefixEnvVars("PARALLEL"),
		Usage:   "Pass a parallelism hint to the external runner",
	}
	Coverage = &cli.BoolFlag{
		Name:    "coverage",
		Value:   false,
		EnvVars: prefixEnvVars("COVERAGE"),
		Usage:   "Request coverage collection from the external runner",
	}
	Performance = &cli.BoolFlag{
		Name:    "performance",
		Value:   false,
		EnvVars: prefixEnvVars("PERFORMANCE"),
		Usage:   "Request benchmark-only mode from the external runner",
	}
	HTMLReport = &cli.BoolFlag{
		Name:    "html-report",
		Value:   false,
		EnvVars: prefixEnvVars("HTML_REPORT"),
		Usage:   "Render and write an HTML summary file",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Value:   false,
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Increase output detail",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (trace, debug, info, warn, error)",
	}
)

var requiredFlags = []cli.Flag{
	SuitesConfig,
}

var optionalFlags = []cli.Flag{
	Suite,
	WorkDir,
	RunnerBinary,
	ReportDir,
	LogDir,
	Timeout,
	Parallel,
	Coverage,
	Performance,
	HTMLReport,
	Verbose,
	RunInterval,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
