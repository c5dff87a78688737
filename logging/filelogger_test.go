package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conductor-ci/conductor/types"
)

func TestNewFileLogger(t *testing.T) {
	baseDir := t.TempDir()

	l, err := NewFileLogger(baseDir, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", l.GetRunID())
	assert.Equal(t, filepath.Join(baseDir, "testrun-run-1"), l.RunDir())
	assert.DirExists(t, filepath.Join(l.RunDir(), "failed"))
	assert.DirExists(t, filepath.Join(l.RunDir(), "passed"))
}

func TestNewFileLoggerRequiresRunID(t *testing.T) {
	_, err := NewFileLogger(t.TempDir(), "")
	require.Error(t, err)
}

func TestWriteSuiteOutput(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-2")
	require.NoError(t, err)

	require.NoError(t, l.WriteSuiteOutput(&types.SuiteResult{
		SuiteID:  "cache",
		Status:   types.SuiteStatusPassed,
		Duration: 3 * time.Second,
		Stdout:   "all good\n",
	}))
	require.NoError(t, l.WriteSuiteOutput(&types.SuiteResult{
		SuiteID:  "api",
		Status:   types.SuiteStatusFailed,
		ExitCode: 1,
		Stdout:   "\x1b[31mtest_health FAILED\x1b[0m\n",
		Stderr:   "traceback\n",
		Error:    "1 test failed",
	}))

	passed, err := os.ReadFile(filepath.Join(l.RunDir(), "passed", "cache.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(passed), "suite: cache")
	assert.Contains(t, string(passed), "all good")

	failed, err := os.ReadFile(filepath.Join(l.RunDir(), "failed", "api.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(failed), "exit code: 1")
	assert.Contains(t, string(failed), "--- stderr ---")
	// ANSI color codes are stripped before writing.
	assert.Contains(t, string(failed), "test_health FAILED")
	assert.NotContains(t, string(failed), "\x1b[31m")
}

func TestWriteSuiteOutputTimeoutGoesToFailed(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-3")
	require.NoError(t, err)

	require.NoError(t, l.WriteSuiteOutput(&types.SuiteResult{
		SuiteID: "slow",
		Status:  types.SuiteStatusTimeout,
		Error:   "suite slow timed out after 5m0s",
	}))

	assert.FileExists(t, filepath.Join(l.RunDir(), "failed", "slow.txt"))
}

func TestWriteSummary(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-4")
	require.NoError(t, err)

	require.NoError(t, l.WriteSummary("Total: 3, Passed: 3\n"))

	data, err := os.ReadFile(filepath.Join(l.RunDir(), SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total: 3")
}

func TestHTMLPath(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-5")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(l.RunDir(), HTMLFilename), l.HTMLPath())
}
