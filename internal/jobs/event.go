// Package jobs reconstructs backup job lifecycles from a stream of classified
// log events and answers queries over the resulting ledger of finished runs.
package jobs

import "time"

// EventKind classifies a single log line.
type EventKind int

const (
	// EventNone marks a line that carries no lifecycle information.
	EventNone EventKind = iota
	// EventStart marks the start of a job instance.
	EventStart
	// EventError marks a failed termination.
	EventError
	// EventSuccess marks a successful termination.
	EventSuccess
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "START"
	case EventError:
		return "ERROR"
	case EventSuccess:
		return "SUCCESS"
	default:
		return "NONE"
	}
}

// Event is one classified log line. It is not retained by the Tracker.
type Event struct {
	Kind   EventKind
	Name   string
	Time   time.Time
	Detail string // only set for EventError
	Line   int    // 1-based line number in the scanned file, 0 if unknown
}
