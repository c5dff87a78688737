package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAddTest(t *testing.T) {
	var s Stats
	s.AddTest(TestStatusPassed)
	s.AddTest(TestStatusPassed)
	s.AddTest(TestStatusFailed)
	s.AddTest(TestStatusError)
	s.AddTest(TestStatusSkipped)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, s.Total, s.Passed+s.Failed+s.Errored+s.Skipped)
}

func TestStatsSuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		wantRate float64
		wantOK   bool
	}{
		{
			name:   "no tests recorded",
			stats:  Stats{},
			wantOK: false,
		},
		{
			name:     "seven of ten passed",
			stats:    Stats{Total: 10, Passed: 7, Failed: 2, Errored: 1},
			wantRate: 70.0,
			wantOK:   true,
		},
		{
			name:     "all passed",
			stats:    Stats{Total: 4, Passed: 4},
			wantRate: 100.0,
			wantOK:   true,
		},
		{
			name:     "none passed",
			stats:    Stats{Total: 3, Failed: 3},
			wantRate: 0.0,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := tt.stats.SuccessRate()
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.wantRate, rate, 0.001)
			}
		})
	}
}

func TestRunReportAddSuite(t *testing.T) {
	report := &RunReport{RunID: "run-1", Start: time.Now()}

	report.AddSuite(&SuiteResult{
		SuiteID: "cache",
		Status:  SuiteStatusFailed,
		Tests: map[string]TestResult{
			"test_get":   {Status: TestStatusPassed},
			"test_set":   {Status: TestStatusFailed, Error: "assertion failed"},
			"test_evict": {Status: TestStatusSkipped},
		},
		Order: []string{"test_get", "test_set", "test_evict"},
	})
	report.AddSuite(&SuiteResult{
		SuiteID: "api",
		Status:  SuiteStatusPassed,
		Tests: map[string]TestResult{
			"test_health": {Status: TestStatusPassed},
		},
		Order: []string{"test_health"},
	})

	assert.Equal(t, 4, report.Stats.Total)
	assert.Equal(t, 2, report.Stats.Passed)
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Equal(t, 0, report.Stats.Errored)
	assert.Equal(t, 1, report.Stats.Skipped)

	// Overall counters equal the sum of per-test statuses across suites.
	total := 0
	for _, sr := range report.Suites {
		total += len(sr.Tests)
	}
	assert.Equal(t, total, report.Stats.Total)

	require.NotNil(t, report.Suite("cache"))
	assert.Nil(t, report.Suite("bogus"))
}

func TestRunReportSuiteWithoutTests(t *testing.T) {
	report := &RunReport{RunID: "run-2", Start: time.Now()}

	report.AddSuite(&SuiteResult{
		SuiteID: "cache",
		Status:  SuiteStatusTimeout,
		Error:   "suite timed out",
	})

	// A suite that produced no tests contributes only its record.
	assert.Len(t, report.Suites, 1)
	assert.Equal(t, 0, report.Stats.Total)
	assert.False(t, report.HasFailures())
}

func TestRunReportHasFailures(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  bool
	}{
		{name: "all passed", stats: Stats{Total: 2, Passed: 2}, want: false},
		{name: "skips only", stats: Stats{Total: 2, Skipped: 2}, want: false},
		{name: "one failed", stats: Stats{Total: 2, Passed: 1, Failed: 1}, want: true},
		{name: "one errored", stats: Stats{Total: 2, Passed: 1, Errored: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &RunReport{Stats: tt.stats}
			assert.Equal(t, tt.want, report.HasFailures())
		})
	}
}

func TestRunReportFinalize(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	report := &RunReport{Start: start}
	report.Finalize()

	assert.False(t, report.End.IsZero())
	assert.GreaterOrEqual(t, report.Duration, 2*time.Second)
}

func TestTestStatusIsValid(t *testing.T) {
	for _, s := range []TestStatus{TestStatusPassed, TestStatusFailed, TestStatusError, TestStatusSkipped} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, TestStatus("bogus").IsValid())
	assert.False(t, TestStatus("").IsValid())
}
