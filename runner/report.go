package runner

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/conductor-ci/conductor/types"
)

//go:embed schema/report.schema.json
var schemaFS embed.FS

var (
	reportSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// ReportParseError signals a structured report that is missing or does
// not satisfy the report schema. The coordinator degrades to best-effort
// status inference; the run continues.
type ReportParseError struct {
	Path string
	Err  error
}

func (e *ReportParseError) Error() string {
	return fmt.Sprintf("cannot parse suite report %s: %v", e.Path, e.Err)
}

func (e *ReportParseError) Unwrap() error {
	return e.Err
}

// reportFile is the wire shape of the JSON report written by the external
// test runner, one file per suite.
type reportFile struct {
	Suite    string       `json:"suite"`
	Duration float64      `json:"duration"`
	Tests    []reportTest `json:"tests"`
}

type reportTest struct {
	ID     string             `json:"id"`
	Status string             `json:"status"`
	Phases map[string]float64 `json:"phases,omitempty"` // seconds per phase (setup/call/teardown)
	Error  string             `json:"error,omitempty"`
}

// compileReportSchema compiles the embedded report schema once.
func compileReportSchema() error {
	compileOnce.Do(func() {
		data, err := schemaFS.ReadFile("schema/report.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read report schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal report schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add report schema resource: %w", err)
			return
		}

		reportSchema, err = compiler.Compile("report.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile report schema: %w", err)
		}
	})

	return compileErr
}

// LoadReport reads and validates the structured report at path and
// converts it into per-test results in report order. Any failure comes
// back as a ReportParseError.
func LoadReport(path string) (map[string]types.TestResult, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ReportParseError{Path: path, Err: err}
	}
	return ParseReport(path, data)
}

// ParseReport validates raw report bytes against the embedded schema and
// extracts one TestResult per reported test. Test duration is the sum of
// the reported phase durations; error text is kept only for failed and
// errored tests.
func ParseReport(path string, data []byte) (map[string]types.TestResult, []string, error) {
	if err := compileReportSchema(); err != nil {
		return nil, nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ReportParseError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := reportSchema.Validate(doc); err != nil {
		return nil, nil, &ReportParseError{Path: path, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var file reportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, &ReportParseError{Path: path, Err: err}
	}

	tests := make(map[string]types.TestResult, len(file.Tests))
	order := make([]string, 0, len(file.Tests))

	for _, t := range file.Tests {
		status := types.TestStatus(t.Status)

		var total float64
		for _, seconds := range t.Phases {
			total += seconds
		}

		result := types.TestResult{
			Status:   status,
			Duration: time.Duration(total * float64(time.Second)),
		}
		if status == types.TestStatusFailed || status == types.TestStatusError {
			result.Error = t.Error
		}

		if _, dup := tests[t.ID]; !dup {
			order = append(order, t.ID)
		}
		tests[t.ID] = result
	}

	return tests, order, nil
}
