// Package formatter renders probe reports and run history as the plugin line,
// JSON, YAML or an aligned table.
package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/synobackup/check-syno-backup/internal/check"
	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

// Formatter writes reports and run history in one output format.
type Formatter interface {
	// Report writes the outcome of one check.
	Report(w io.Writer, report *probe.Report) error
	// Records writes finished runs.
	Records(w io.Writer, ledger jobs.Ledger) error
}

// Output format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// New returns the formatter for format. dateLayout applies to times shown
// in text output; an empty layout uses check.DefaultDateLayout.
func New(format, dateLayout string) (Formatter, error) {
	if dateLayout == "" {
		dateLayout = check.DefaultDateLayout
	}
	switch format {
	case FormatText, "":
		return &TextFormatter{DateLayout: dateLayout}, nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// recordOutput is the serialized form of a finished run.
type recordOutput struct {
	Name            string    `json:"name" yaml:"name"`
	Start           time.Time `json:"start" yaml:"start"`
	End             time.Time `json:"end" yaml:"end"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Status          string    `json:"status" yaml:"status"`
	Detail          string    `json:"detail" yaml:"detail"`
	Line            int       `json:"line" yaml:"line"`
}

func buildRecord(rec jobs.Record) recordOutput {
	return recordOutput{
		Name:            rec.Name,
		Start:           rec.Start,
		End:             rec.End,
		DurationMinutes: int(rec.Duration.Minutes()),
		Status:          string(rec.Status),
		Detail:          rec.Detail,
		Line:            rec.Line,
	}
}

// reportOutput wraps a report with its selected run.
type reportOutput struct {
	probe.Report `yaml:",inline"`
	Selected     *recordOutput `json:"selected,omitempty" yaml:"selected,omitempty"`
	ExitCode     int           `json:"exit_code" yaml:"exit_code"`
}

func buildReport(report *probe.Report) *reportOutput {
	out := &reportOutput{Report: *report, ExitCode: report.Result.Status.Code()}
	if report.Selected != nil {
		rec := buildRecord(*report.Selected)
		out.Selected = &rec
	}
	return out
}
