package formatter

import (
	"encoding/json"
	"io"

	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

// JSONFormatter writes a report as one JSON object and history as JSON
// Lines, one run per line.
type JSONFormatter struct {
	// Pretty indents report output. History stays one object per line.
	Pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Pretty: true}
}

// Report writes report as a JSON object.
func (jf *JSONFormatter) Report(w io.Writer, report *probe.Report) error {
	encoder := newEncoder(w)
	if jf.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(buildReport(report))
}

// Records writes each run as a JSON line.
func (jf *JSONFormatter) Records(w io.Writer, ledger jobs.Ledger) error {
	encoder := newEncoder(w)
	for _, rec := range ledger {
		if err := encoder.Encode(buildRecord(rec)); err != nil {
			return err
		}
	}
	return nil
}

func newEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false) // task names and details are shown verbatim
	return encoder
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := newEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
