package types

// TestStatus represents the possible states of a single test execution
type TestStatus string

const (
	TestStatusPassed  TestStatus = "passed"
	TestStatusFailed  TestStatus = "failed"
	TestStatusError   TestStatus = "error"
	TestStatusSkipped TestStatus = "skipped"
)

// IsValid reports whether s is one of the statuses a runner report may carry.
func (s TestStatus) IsValid() bool {
	switch s {
	case TestStatusPassed, TestStatusFailed, TestStatusError, TestStatusSkipped:
		return true
	}
	return false
}

// SuiteStatus represents the terminal states of a suite run.
// A suite is pending before execution and running while the external
// process is alive; only terminal states are recorded.
type SuiteStatus string

const (
	SuiteStatusPassed  SuiteStatus = "passed"
	SuiteStatusFailed  SuiteStatus = "failed"
	SuiteStatusError   SuiteStatus = "error"
	SuiteStatusTimeout SuiteStatus = "timeout"
)
