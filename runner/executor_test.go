package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conductor-ci/conductor/types"
)

func TestProcessRunnerSuccess(t *testing.T) {
	p := NewProcessRunner()

	res, err := p.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "echo out; echo err >&2"},
		Dir:    t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "out")
	assert.Contains(t, res.Stderr, "err")
	assert.False(t, res.TimedOut)
}

func TestProcessRunnerNonZeroExit(t *testing.T) {
	p := NewProcessRunner()

	res, err := p.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "exit 3"},
	})
	// A failing process is a result, not an error.
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestProcessRunnerTimeout(t *testing.T) {
	p := NewProcessRunner()

	res, err := p.Run(context.Background(), Invocation{
		Binary:  "sh",
		Args:    []string{"-c", "sleep 5"},
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, res.Duration, 5*time.Second)
}

func TestProcessRunnerStartFailure(t *testing.T) {
	p := NewProcessRunner()

	_, err := p.Run(context.Background(), Invocation{
		Binary: "definitely-not-a-real-binary",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting runner process")
}

func TestProcessRunnerEmptyBinary(t *testing.T) {
	p := NewProcessRunner()

	_, err := p.Run(context.Background(), Invocation{})
	require.Error(t, err)
}

func TestClassifySuite(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		output   string
		want     types.SuiteStatus
	}{
		{name: "zero exit", exitCode: 0, output: "", want: types.SuiteStatusPassed},
		{name: "zero exit ignores output", exitCode: 0, output: "ERROR in log line", want: types.SuiteStatusPassed},
		{name: "failure marker FAILED", exitCode: 1, output: "test_x FAILED", want: types.SuiteStatusFailed},
		{name: "failure marker assertion", exitCode: 1, output: "AssertionError: boom", want: types.SuiteStatusFailed},
		{name: "non-zero without markers", exitCode: 1, output: "segfault", want: types.SuiteStatusError},
		{name: "non-zero empty output", exitCode: 137, output: "", want: types.SuiteStatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySuite(tt.exitCode, tt.output))
		})
	}
}
