package runner

import (
	"fmt"
	"time"
)

// SuiteTimeoutError signals that a suite's process exceeded the
// configured wall-clock bound and was forcibly terminated. Recorded on
// the suite result; non-fatal to the run.
type SuiteTimeoutError struct {
	SuiteID string
	Timeout time.Duration
}

func (e *SuiteTimeoutError) Error() string {
	return fmt.Sprintf("suite %s timed out after %s", e.SuiteID, e.Timeout)
}

// SuiteExecutionError signals that a suite's process could not be
// launched or crashed abnormally. Recorded on the suite result;
// non-fatal to the run.
type SuiteExecutionError struct {
	SuiteID string
	Err     error
}

func (e *SuiteExecutionError) Error() string {
	return fmt.Sprintf("suite %s execution failed: %v", e.SuiteID, e.Err)
}

func (e *SuiteExecutionError) Unwrap() error {
	return e.Err
}
