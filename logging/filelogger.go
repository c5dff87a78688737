// Package logging persists captured suite output under a per-run
// directory so failures can be inspected after the console scrolls away.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"

	"github.com/conductor-ci/conductor/types"
)

const (
	// RunDirectoryPrefix is the standardized prefix for run directories
	RunDirectoryPrefix = "testrun-"

	failedDirName = "failed"
	passedDirName = "passed"

	SummaryFilename = "summary.log"
	HTMLFilename    = "results.html"
)

// FileLogger handles writing suite output to files. Each run gets its own
// directory with passed/ and failed/ subdirectories.
type FileLogger struct {
	baseDir string
	runID   string
	mu      sync.Mutex
}

// NewFileLogger creates a FileLogger rooted at baseDir for the given run,
// creating the run directory tree eagerly.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	l := &FileLogger{baseDir: baseDir, runID: runID}
	for _, dir := range []string{l.RunDir(), l.failedDir(), l.passedDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	return l, nil
}

// GetRunID returns the run identifier this logger writes under.
func (l *FileLogger) GetRunID() string {
	return l.runID
}

// RunDir returns the directory all artifacts for this run live in.
func (l *FileLogger) RunDir() string {
	return filepath.Join(l.baseDir, RunDirectoryPrefix+l.runID)
}

func (l *FileLogger) failedDir() string {
	return filepath.Join(l.RunDir(), failedDirName)
}

func (l *FileLogger) passedDir() string {
	return filepath.Join(l.RunDir(), passedDirName)
}

// WriteSuiteOutput persists a suite's captured stdout/stderr. Output from
// failing, erroring and timed out suites lands in failed/, the rest in
// passed/. ANSI escape sequences are stripped so the files stay readable.
func (l *FileLogger) WriteSuiteOutput(sr *types.SuiteResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := l.passedDir()
	if sr.Status != types.SuiteStatusPassed {
		dir = l.failedDir()
	}

	content := fmt.Sprintf("suite: %s\nstatus: %s\nexit code: %d\nduration: %s\n",
		sr.SuiteID, sr.Status, sr.ExitCode, sr.Duration)
	if sr.Error != "" {
		content += fmt.Sprintf("error: %s\n", sr.Error)
	}
	if sr.Stdout != "" {
		content += "\n--- stdout ---\n" + stripansi.Strip(sr.Stdout)
	}
	if sr.Stderr != "" {
		content += "\n--- stderr ---\n" + stripansi.Strip(sr.Stderr)
	}

	path := filepath.Join(dir, sr.SuiteID+".txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write suite output %s: %w", path, err)
	}
	return nil
}

// WriteSummary writes the rendered run summary into the run directory.
func (l *FileLogger) WriteSummary(content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.RunDir(), SummaryFilename)
	if err := os.WriteFile(path, []byte(stripansi.Strip(content)), 0644); err != nil {
		return fmt.Errorf("failed to write summary file %s: %w", path, err)
	}
	return nil
}

// HTMLPath returns where the HTML report for this run should be written.
func (l *FileLogger) HTMLPath() string {
	return filepath.Join(l.RunDir(), HTMLFilename)
}
