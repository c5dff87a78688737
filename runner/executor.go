package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var _ ProcessRunner = (*processRunner)(nil)

// Invocation describes one external runner process to execute.
type Invocation struct {
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration // Wall-clock bound; zero means no bound
}

// ExecResult captures the observable outcome of an external process.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool // True when the process was killed at the timeout
}

// ProcessRunner is the capability used to execute the external test
// runner. The coordinator only ever talks to this interface, so tests can
// substitute a fake without spawning real processes.
type ProcessRunner interface {
	Run(ctx context.Context, inv Invocation) (*ExecResult, error)
}

// processRunner executes real subprocesses via os/exec.
type processRunner struct{}

// NewProcessRunner creates the default subprocess-backed ProcessRunner.
func NewProcessRunner() ProcessRunner {
	return &processRunner{}
}

// Run executes the invocation and waits for completion. A timeout is not
// an error: the result comes back with TimedOut set and the elapsed wall
// time up to cancellation. An error is returned only when the process
// could not be started at all.
func (p *processRunner) Run(ctx context.Context, inv Invocation) (*ExecResult, error) {
	if inv.Binary == "" {
		return nil, fmt.Errorf("invocation binary cannot be empty")
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}

	if runErr != nil {
		exitErr := &exec.ExitError{}
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Invocation never started (binary missing, permission denied, ...)
		return nil, fmt.Errorf("starting runner process: %w", runErr)
	}

	result.ExitCode = 0
	return result, nil
}
