package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth  int
	ValueWidth  int
	ChangeWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  32,
		ValueWidth:  16,
		ChangeWidth: 10,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(label string, current, previous interface{}, change string) string {
			return fmt.Sprintf("| %-*s | %*v | %*v | %*s |",
				c.config.LabelWidth, label,
				c.config.ValueWidth, current,
				c.config.ValueWidth, previous,
				c.config.ChangeWidth, change)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.ChangeWidth+2))
		},
		"formatChange": formatChange,
		"scalarRows":   scalarResults,
		"breakdowns":   breakdownResults,
	}

	tmpl := `
{{.Dashboard}}

Current window:  {{.Windows.Current.Start.Format "2006-01-02"}} to {{.Windows.Current.End.Format "2006-01-02"}}
Previous window: {{.Windows.Previous.Start.Format "2006-01-02"}} to {{.Windows.Previous.End.Format "2006-01-02"}}

{{separator}}
{{formatRow "Metric" "Current" "Previous" "Change"}}
{{separator}}
{{range scalarRows .Results}}{{if .Error}}{{formatRow .Label "error" "error" "-"}}
{{else}}{{formatRow .Label .Current .Previous (formatChange .Change)}}
{{end}}{{end}}{{separator}}
{{range breakdowns .Results}}
=== {{.Label}} ==={{if .Error}}
error: {{.Error}}{{else}}{{range .CurrentBreakdown}}
{{.Key}}: {{.Value}}{{end}}{{end}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func formatChange(change *float64) string {
	if change == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *change)
}

func scalarResults(results []domain.MetricResult) []domain.MetricResult {
	var scalars []domain.MetricResult
	for _, r := range results {
		if r.Shape == domain.ShapeScalar {
			scalars = append(scalars, r)
		}
	}
	return scalars
}

func breakdownResults(results []domain.MetricResult) []domain.MetricResult {
	var breakdowns []domain.MetricResult
	for _, r := range results {
		if r.Shape == domain.ShapeBreakdown {
			breakdowns = append(breakdowns, r)
		}
	}
	return breakdowns
}
