// Package reporting renders finalized run reports as console tables,
// plain text summaries, HTML files and coverage overviews. Everything in
// this package is pure presentation over an already-built RunReport.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/conductor-ci/conductor/types"
)

// FormatSuccessRate renders passed/total as a percentage with one
// decimal, e.g. "70.0%". Empty when no tests were recorded.
func FormatSuccessRate(stats types.Stats) string {
	rate, ok := stats.SuccessRate()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f%%", rate)
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// getSuiteStatusString returns a decorated string for a suite status
func getSuiteStatusString(status types.SuiteStatus) string {
	switch status {
	case types.SuiteStatusPassed:
		return "✓ passed"
	case types.SuiteStatusTimeout:
		return "⏱ timeout"
	case types.SuiteStatusError:
		return "! error"
	default:
		return "✗ failed"
	}
}

// RenderTable renders the run report as a console table. When verbose is
// set, individual tests are listed under their suites.
func RenderTable(report *types.RunReport, verbose bool) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Suite Run Results (%s)", formatDuration(report.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Tests", "Passed", "Failed", "Errors", "Skipped", "Status", "Error",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, suite := range report.Suites {
		stats := suiteStats(suite)
		t.AppendRow(table.Row{
			"Suite",
			suite.SuiteID,
			formatDuration(suite.Duration),
			stats.Total,
			stats.Passed,
			stats.Failed,
			stats.Errored,
			stats.Skipped,
			getSuiteStatusString(suite.Status),
			firstLine(suite.Error),
		})

		if verbose {
			for i, id := range suite.Order {
				test := suite.Tests[id]
				prefix := "├──"
				if i == len(suite.Order)-1 {
					prefix = "└──"
				}
				t.AppendRow(table.Row{
					"Test",
					fmt.Sprintf("%s %s", prefix, id),
					formatDuration(test.Duration),
					"1",
					boolToInt(test.Status == types.TestStatusPassed),
					boolToInt(test.Status == types.TestStatusFailed),
					boolToInt(test.Status == types.TestStatusError),
					boolToInt(test.Status == types.TestStatusSkipped),
					string(test.Status),
					firstLine(test.Error),
				})
			}
		}
	}
	t.AppendSeparator()

	if report.HasFailures() {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(report.Duration),
		report.Stats.Total,
		report.Stats.Passed,
		report.Stats.Failed,
		report.Stats.Errored,
		report.Stats.Skipped,
		FormatSuccessRate(report.Stats),
		"",
	})

	return t.Render()
}

// RenderText renders a plain text summary suitable for the summary file
// and non-TTY output.
func RenderText(report *types.RunReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run %s\n", report.RunID))
	b.WriteString(fmt.Sprintf("Started: %s\n", report.Start.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Duration: %s\n", formatDuration(report.Duration)))
	b.WriteString(fmt.Sprintf("Environment: %s, %d CPUs, %.1f GB, workdir %s\n",
		report.Environment.Platform, report.Environment.NumCPU,
		report.Environment.MemoryGB(), report.Environment.WorkDir))
	b.WriteString("\n")

	for _, suite := range report.Suites {
		stats := suiteStats(suite)
		b.WriteString(fmt.Sprintf("Suite %s: %s (%s) - %d tests, %d passed, %d failed, %d errors, %d skipped\n",
			suite.SuiteID, suite.Status, formatDuration(suite.Duration),
			stats.Total, stats.Passed, stats.Failed, stats.Errored, stats.Skipped))
		if suite.Error != "" {
			b.WriteString(fmt.Sprintf("  %s\n", firstLine(suite.Error)))
		}
	}

	b.WriteString(fmt.Sprintf("\nTotal: %d, Passed: %d, Failed: %d, Errors: %d, Skipped: %d\n",
		report.Stats.Total, report.Stats.Passed, report.Stats.Failed,
		report.Stats.Errored, report.Stats.Skipped))

	if rate := FormatSuccessRate(report.Stats); rate != "" {
		b.WriteString(fmt.Sprintf("Success rate: %s\n", rate))
	}

	failed := failedSuiteIDs(report)
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("Failing suites: %s\n", strings.Join(failed, ", ")))
	}

	return b.String()
}

// suiteStats folds a suite's per-test statuses into counters.
func suiteStats(suite *types.SuiteResult) types.Stats {
	var stats types.Stats
	for _, id := range suite.Order {
		stats.AddTest(suite.Tests[id].Status)
	}
	return stats
}

// failedSuiteIDs lists the suites that did not pass, in execution order.
func failedSuiteIDs(report *types.RunReport) []string {
	notPassed := lo.Filter(report.Suites, func(s *types.SuiteResult, _ int) bool {
		return s.Status != types.SuiteStatusPassed
	})
	return lo.Map(notPassed, func(s *types.SuiteResult, _ int) string { return s.SuiteID })
}

// firstLine truncates multi-line error text for table cells.
func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[:idx]
	}
	if runes := []rune(s); len(runes) > 80 {
		return string(runes[:70]) + "..."
	}
	return s
}

// boolToInt converts a bool to a table cell count.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
