package jobs

import "time"

// LatestSuccess finds the successful run of name with the latest start time.
// exists reports whether the ledger holds any run of name at all, so callers
// can tell "never ran" (nil, false) from "ran but always failed" (nil, true).
func LatestSuccess(ledger Ledger, name string) (task *Record, exists bool) {
	for i := range ledger {
		rec := &ledger[i]
		if rec.Name != name {
			continue
		}
		exists = true
		if rec.Status != StatusOK {
			continue
		}
		if task == nil || rec.Start.After(task.Start) {
			task = rec
		}
	}
	if task != nil {
		found := *task
		task = &found
	}
	return task, exists
}

// Names returns the distinct job names in first-seen order.
func (l Ledger) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range l {
		if !seen[rec.Name] {
			seen[rec.Name] = true
			names = append(names, rec.Name)
		}
	}
	return names
}

// Since returns the runs of name that started after cutoff. An empty name
// matches every job.
func (l Ledger) Since(name string, cutoff time.Time) Ledger {
	var out Ledger
	for _, rec := range l {
		if name != "" && rec.Name != name {
			continue
		}
		if rec.Start.After(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// Counts tallies runs by status.
type Counts struct {
	OK       int `json:"ok" yaml:"ok"`
	Critical int `json:"critical" yaml:"critical"`
}

// Total returns the number of runs counted.
func (c Counts) Total() int {
	return c.OK + c.Critical
}

// Count returns the status tally for name.
func (l Ledger) Count(name string) Counts {
	var c Counts
	for _, rec := range l {
		if rec.Name != name {
			continue
		}
		switch rec.Status {
		case StatusOK:
			c.OK++
		case StatusCritical:
			c.Critical++
		}
	}
	return c
}
