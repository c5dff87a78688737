package reporting

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/conductor-ci/conductor/types"
)

func sampleReport() *types.RunReport {
	report := &types.RunReport{
		RunID: "run-abc",
		Start: time.Now().Add(-time.Minute),
		Environment: types.Environment{
			Platform: "linux",
			NumCPU:   8,
			WorkDir:  "/work",
		},
	}
	report.AddSuite(&types.SuiteResult{
		SuiteID:  "cache",
		Status:   types.SuiteStatusFailed,
		Duration: 12 * time.Second,
		Tests: map[string]types.TestResult{
			"test_get": {Status: types.TestStatusPassed, Duration: time.Second},
			"test_set": {Status: types.TestStatusFailed, Duration: 2 * time.Second, Error: "assert 1 == 2\ndetails follow"},
		},
		Order: []string{"test_get", "test_set"},
	})
	report.AddSuite(&types.SuiteResult{
		SuiteID:  "api",
		Status:   types.SuiteStatusPassed,
		Duration: 30 * time.Second,
		Tests: map[string]types.TestResult{
			"test_health": {Status: types.TestStatusPassed, Duration: 5 * time.Second},
		},
		Order: []string{"test_health"},
	})
	report.Finalize()
	return report
}

func TestFormatSuccessRate(t *testing.T) {
	tests := []struct {
		name  string
		stats types.Stats
		want  string
	}{
		{name: "no tests", stats: types.Stats{}, want: ""},
		{name: "seven of ten", stats: types.Stats{Total: 10, Passed: 7}, want: "70.0%"},
		{name: "all passed", stats: types.Stats{Total: 3, Passed: 3}, want: "100.0%"},
		{name: "two thirds", stats: types.Stats{Total: 3, Passed: 2}, want: "66.7%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSuccessRate(tt.stats))
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleReport(), false)

	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "api")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "66.7%")
	// Compact mode omits per-test rows.
	assert.NotContains(t, out, "test_get")
}

func TestRenderTableVerbose(t *testing.T) {
	out := RenderTable(sampleReport(), true)

	assert.Contains(t, out, "test_get")
	assert.Contains(t, out, "test_set")
	assert.Contains(t, out, "test_health")
	// Multi-line error text collapses to its first line.
	assert.Contains(t, out, "assert 1 == 2")
	assert.NotContains(t, out, "details follow")
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleReport())

	assert.Contains(t, out, "run-abc")
	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "66.7%")
	// Only genuinely failing suites are listed as failing.
	assert.Contains(t, out, "Failing suites")
	assert.NotContains(t, out, "Failing suites: api")
}

func TestRenderTextAllPassed(t *testing.T) {
	report := &types.RunReport{RunID: "run-ok", Start: time.Now()}
	report.AddSuite(&types.SuiteResult{
		SuiteID: "cache",
		Status:  types.SuiteStatusPassed,
		Tests:   map[string]types.TestResult{"t": {Status: types.TestStatusPassed}},
		Order:   []string{"t"},
	})
	report.Finalize()

	out := RenderText(report)
	assert.Contains(t, out, "100.0%")
	assert.NotContains(t, out, "Failing suites")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one\ntwo\nthree"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "", firstLine(""))
}

func TestFirstLineTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ü", 100)
	got := firstLine(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", 70)+"...", got)

	// A long first line of a multi-line message is truncated too.
	multi := strings.Repeat("é", 100) + "\nsecond line"
	got = firstLine(multi)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 70)+"...", got)
}
