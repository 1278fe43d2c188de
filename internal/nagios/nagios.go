// Package nagios implements the monitoring-plugin result contract: a status
// word, a single-line message and a process exit code.
package nagios

import (
	"fmt"
	"io"
	"strings"
)

// Status is a plugin return state.
type Status int

// Plugin return codes. Values are the process exit codes.
const (
	OK        Status = 0
	Warning   Status = 1
	Critical  Status = 2
	Unknown   Status = 3
	Dependent Status = 4
)

var statusWords = map[Status]string{
	OK:        "OK",
	Warning:   "WARNING",
	Critical:  "CRITICAL",
	Unknown:   "UNKNOWN",
	Dependent: "DEPENDENT",
}

// String returns the status word printed at the start of the result line.
func (s Status) String() string {
	if w, ok := statusWords[s]; ok {
		return w
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Code returns the process exit code for s.
func (s Status) Code() int {
	return int(s)
}

// MarshalText encodes s as its status word.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus maps a status word back to its Status.
func ParseStatus(word string) (Status, bool) {
	for s, w := range statusWords {
		if strings.EqualFold(w, word) {
			return s, true
		}
	}
	return Unknown, false
}

// severity ranks statuses for Worst. UNKNOWN sits between OK and WARNING.
func (s Status) severity() int {
	switch s {
	case OK:
		return 0
	case Unknown:
		return 1
	case Warning:
		return 2
	case Critical:
		return 3
	default:
		return -1
	}
}

// Worst returns the most severe status under CRITICAL > WARNING > UNKNOWN > OK.
// The second result is false when any input falls outside that ordering.
func Worst(statuses ...Status) (Status, bool) {
	if len(statuses) == 0 {
		return Unknown, false
	}
	worst := OK
	for _, s := range statuses {
		if s.severity() < 0 {
			return Unknown, false
		}
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst, true
}

// Result is the outcome reported to the monitoring supervisor.
type Result struct {
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	// Perf is appended after a '|' when non-empty.
	Perf []PerfData `json:"perfdata,omitempty" yaml:"perfdata,omitempty"`
}

// Resultf builds a Result with a formatted message.
func Resultf(status Status, format string, args ...any) Result {
	return Result{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Line renders the single output line, e.g. "OK: message|'x'=1m;2;3;0;0".
func (r Result) Line() string {
	var b strings.Builder
	b.WriteString(r.Status.String())
	b.WriteString(": ")
	b.WriteString(oneLine(r.Message))
	if len(r.Perf) > 0 {
		b.WriteByte('|')
		for i, p := range r.Perf {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.String())
		}
	}
	return b.String()
}

// Write prints the result line to w.
func (r Result) Write(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Line())
	return err
}

// oneLine keeps the plugin contract of exactly one output line.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
