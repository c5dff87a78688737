package reporting

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/conductor-ci/conductor/types"
)

//go:embed templates/results.html.tmpl
var templateFS embed.FS

const htmlTemplateName = "results.html.tmpl"

// templateFuncs returns the functions available inside the HTML template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"successRate": func(stats types.Stats) string {
			return FormatSuccessRate(stats)
		},
		"firstLine": firstLine,
	}
}

// HTMLSink renders a run report to a standalone HTML file.
type HTMLSink struct {
	tmpl *template.Template
}

// NewHTMLSink parses the embedded report template.
func NewHTMLSink() (*HTMLSink, error) {
	tmpl, err := template.New(htmlTemplateName).
		Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/"+htmlTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return &HTMLSink{tmpl: tmpl}, nil
}

// Write renders the report and writes it to path, creating parent
// directories as needed.
func (s *HTMLSink) Write(report *types.RunReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report %s: %w", path, err)
	}
	defer f.Close()

	if err := s.tmpl.Execute(f, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
