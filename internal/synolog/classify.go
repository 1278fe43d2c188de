package synolog

import (
	"strings"

	"github.com/synobackup/check-syno-backup/internal/jobs"
)

// Classify turns one raw log line into a job event. It never fails: fields
// that cannot be extracted are replaced by UnknownTaskName, FarPast or
// UnknownDetail.
func Classify(line string, schema Schema) jobs.Event {
	ev, _ := classify(line, schema)
	return ev
}

// classify returns the event plus the extraction errors that were papered
// over with placeholders.
func classify(line string, schema Schema) (jobs.Event, []error) {
	if !schema.isCandidate(line) {
		return jobs.Event{Kind: jobs.EventNone}, nil
	}

	kind := kindOf(line, schema)
	if kind == jobs.EventNone {
		return jobs.Event{Kind: jobs.EventNone}, nil
	}

	var anomalies []error
	ev := jobs.Event{Kind: kind}

	name, err := TaskName(line, schema)
	if err != nil {
		anomalies = append(anomalies, err)
		name = UnknownTaskName
	}
	ev.Name = name

	ts, err := Timestamp(line)
	if err != nil {
		anomalies = append(anomalies, err)
		ts = FarPast
	}
	ev.Time = ts

	if kind == jobs.EventError {
		detail, err := ErrorDetail(line, schema)
		if err != nil {
			anomalies = append(anomalies, err)
			detail = UnknownDetail
		}
		ev.Detail = detail
	}

	return ev, anomalies
}

// kindOf decides the event kind; the first matching rule wins. The "err"
// test is a plain substring match, so task names containing it (e.g.
// "Server") turn finish lines into errors.
func kindOf(line string, schema Schema) jobs.EventKind {
	switch {
	case strings.Contains(line, schema.startPhrase()):
		return jobs.EventStart
	case strings.Contains(line, "err"):
		return jobs.EventError
	case strings.Contains(line, "finished"):
		return jobs.EventSuccess
	default:
		return jobs.EventNone
	}
}
