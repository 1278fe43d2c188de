package jobs

import (
	"sort"
	"time"
)

// Status is the state of a job record. Finished records are only ever OK or
// Critical; Unknown is the in-flight state.
type Status string

const (
	StatusUnknown  Status = "UNKNOWN"
	StatusOK       Status = "OK"
	StatusCritical Status = "CRITICAL"
)

// SuccessDetail is the detail recorded for every successful run.
const SuccessDetail = "Task finished successfully"

// pendingDetail is the detail of a run that has not terminated yet.
const pendingDetail = "None"

// FarFuture is the provisional end time of an in-flight job.
var FarFuture = time.Date(3000, 1, 1, 1, 1, 1, 0, time.Local)

// Record is an immutable finished run.
type Record struct {
	Name     string
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Status   Status
	Detail   string
	// Line is the line number of the terminating log line.
	Line int
}

// inFlight is a started-but-unfinished run, owned by the Tracker.
type inFlight struct {
	name   string
	start  time.Time
	end    time.Time
	status Status
	detail string
}

// Ledger holds finished runs in file-scan order.
type Ledger []Record

// Tracker consumes events in file order. It keeps at most one in-flight run
// per job name.
type Tracker struct {
	running  map[string]*inFlight
	finished Ledger

	// OnSupersede is called when a START arrives for a name that is already
	// in flight.
	OnSupersede func(name string, previous, next time.Time)
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{running: make(map[string]*inFlight)}
}

// Observe applies one event.
func (t *Tracker) Observe(ev Event) {
	switch ev.Kind {
	case EventStart:
		t.start(ev)
	case EventError:
		t.finish(ev, StatusCritical, ev.Detail)
	case EventSuccess:
		t.finish(ev, StatusOK, SuccessDetail)
	}
}

// start opens a run for ev.Name. A second START for a name already in flight
// overwrites the open run in place; the earlier instance is never reported.
// A restart and two concurrent runs of the same task are indistinguishable
// here, so this behavior is suspect.
func (t *Tracker) start(ev Event) {
	if run, ok := t.running[ev.Name]; ok {
		if t.OnSupersede != nil {
			t.OnSupersede(ev.Name, run.start, ev.Time)
		}
		run.start = ev.Time
		run.end = FarFuture
		run.status = StatusUnknown
		run.detail = pendingDetail
		return
	}
	t.running[ev.Name] = &inFlight{
		name:   ev.Name,
		start:  ev.Time,
		end:    FarFuture,
		status: StatusUnknown,
		detail: pendingDetail,
	}
}

// finish closes the in-flight run for ev.Name. Terminations without a
// matching start are ignored.
func (t *Tracker) finish(ev Event, status Status, detail string) {
	run, ok := t.running[ev.Name]
	if !ok {
		return
	}
	rec := Record{
		Name:     run.name,
		Start:    run.start,
		End:      ev.Time,
		Duration: ev.Time.Sub(run.start),
		Status:   status,
		Detail:   detail,
		Line:     ev.Line,
	}
	t.finished = append(t.finished, rec)
	delete(t.running, ev.Name)
}

// Ledger returns the finished runs observed so far. Runs still in flight are
// not part of it.
func (t *Tracker) Ledger() Ledger {
	out := make(Ledger, len(t.finished))
	copy(out, t.finished)
	return out
}

// Pending returns the names of runs that have started but not terminated,
// sorted.
func (t *Tracker) Pending() []string {
	names := make([]string, 0, len(t.running))
	for name := range t.running {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Process runs a fresh Tracker over events and returns its ledger.
func Process(events []Event) Ledger {
	t := NewTracker()
	for _, ev := range events {
		t.Observe(ev)
	}
	return t.Ledger()
}
