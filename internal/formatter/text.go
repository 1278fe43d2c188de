package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

// TextFormatter writes the plugin line for reports and a table for history.
type TextFormatter struct {
	// DateLayout formats start and end times in the history table.
	DateLayout string
}

// Report writes the single plugin result line.
func (tf *TextFormatter) Report(w io.Writer, report *probe.Report) error {
	return report.Result.Write(w)
}

// Records writes one table row per finished run.
func (tf *TextFormatter) Records(w io.Writer, ledger jobs.Ledger) error {
	if len(ledger) == 0 {
		_, err := fmt.Fprintln(w, "No finished backup runs found.")
		return err
	}
	tbl := NewTable(w, "TASK", "START", "END", "MINUTES", "STATUS", "DETAIL")
	tbl.SetMaxWidth(5, 60)
	for _, rec := range ledger {
		tbl.AddRow(
			rec.Name,
			rec.Start.Format(tf.DateLayout),
			rec.End.Format(tf.DateLayout),
			strconv.Itoa(int(rec.Duration.Minutes())),
			string(rec.Status),
			rec.Detail,
		)
	}
	return tbl.Render()
}
