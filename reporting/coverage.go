package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conductor-ci/conductor/types"
)

// CoverageSummary reports, per executed suite, whether the external
// runner produced a coverage directory. The contents are opaque to the
// coordinator; this is a presence-only check.
func CoverageSummary(report *types.RunReport, coverageDir string) string {
	var b strings.Builder
	b.WriteString("Coverage artifacts:\n")

	for _, suite := range report.Suites {
		dir := filepath.Join(coverageDir, suite.SuiteID)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			b.WriteString(fmt.Sprintf("  %s: %s\n", suite.SuiteID, dir))
		} else {
			b.WriteString(fmt.Sprintf("  %s: no coverage data\n", suite.SuiteID))
		}
	}

	return b.String()
}
