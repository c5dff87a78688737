package types

import "time"

// TestResult captures the outcome of a single test inside a suite, parsed
// from the external runner's structured report. Immutable after creation.
type TestResult struct {
	Status   TestStatus
	Duration time.Duration
	Error    string // Present only when Status is failed or error
}

// SuiteResult captures the aggregated outcome of one suite run. It is
// created once per suite and owned exclusively by the RunReport.
type SuiteResult struct {
	SuiteID  string
	Status   SuiteStatus
	Duration time.Duration
	Tests    map[string]TestResult
	Order    []string // Test identifiers in report order
	Stdout   string
	Stderr   string
	ExitCode int
	Error    string // Synthetic error text for timeout/error suites
}

// Stats tracks aggregate test counters across suites.
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// AddTest increments the counter matching the test's status.
func (s *Stats) AddTest(status TestStatus) {
	s.Total++
	switch status {
	case TestStatusPassed:
		s.Passed++
	case TestStatusFailed:
		s.Failed++
	case TestStatusError:
		s.Errored++
	case TestStatusSkipped:
		s.Skipped++
	}
}

// SuccessRate returns passed/total as a percentage. The boolean is false
// when no tests were recorded and the rate is undefined.
func (s Stats) SuccessRate() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}
	return float64(s.Passed) / float64(s.Total) * 100, true
}

// RunReport is the aggregate result of a full run. It is built
// incrementally by the coordinator: created empty, one SuiteResult
// appended after each suite completes, finalized once the selection is
// exhausted.
type RunReport struct {
	RunID       string
	Start       time.Time
	End         time.Time
	Duration    time.Duration
	Suites      []*SuiteResult // Execution order
	Stats       Stats
	Environment Environment
}

// AddSuite records a completed suite and folds its per-test statuses into
// the overall counters. Suites that errored or timed out before
// producing any TestResult contribute only the suite record itself.
func (r *RunReport) AddSuite(sr *SuiteResult) {
	r.Suites = append(r.Suites, sr)
	for _, id := range sr.Order {
		r.Stats.AddTest(sr.Tests[id].Status)
	}
}

// Suite returns the recorded result for a suite identifier, or nil.
func (r *RunReport) Suite(id string) *SuiteResult {
	for _, sr := range r.Suites {
		if sr.SuiteID == id {
			return sr
		}
	}
	return nil
}

// HasFailures reports whether the aggregated counters show at least one
// failed or errored test. This is the sole input to the process exit
// code: suite-level timeouts or errors with zero recorded tests do not
// flip it on their own.
func (r *RunReport) HasFailures() bool {
	return r.Stats.Failed > 0 || r.Stats.Errored > 0
}

// Finalize stamps the end time and total wall-clock duration.
func (r *RunReport) Finalize() {
	r.End = time.Now()
	r.Duration = r.End.Sub(r.Start)
}
