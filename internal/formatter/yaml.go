package formatter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

// YAMLFormatter writes reports and history as YAML documents.
type YAMLFormatter struct{}

// Report writes report as a YAML mapping.
func (yf *YAMLFormatter) Report(w io.Writer, report *probe.Report) error {
	return encodeYAML(w, buildReport(report))
}

// Records writes the runs as a YAML sequence.
func (yf *YAMLFormatter) Records(w io.Writer, ledger jobs.Ledger) error {
	out := make([]recordOutput, 0, len(ledger))
	for _, rec := range ledger {
		out = append(out, buildRecord(rec))
	}
	return encodeYAML(w, out)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	return encodeYAML(w, v)
}
