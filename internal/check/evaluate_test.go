package check

import (
	"strings"
	"testing"
	"time"

	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/nagios"
)

var now = time.Date(2016, 8, 30, 12, 0, 0, 0, time.Local)

// task builds a run that ended age ago and lasted dur.
func task(age, dur time.Duration) jobs.Record {
	end := now.Add(-age)
	return jobs.Record{
		Name:     "Local",
		Start:    end.Add(-dur),
		End:      end,
		Duration: dur,
		Status:   jobs.StatusOK,
	}
}

func TestEvaluate_Healthy(t *testing.T) {
	res := Evaluate(task(2*time.Hour, 5*time.Minute), DefaultThresholds(), now, "")

	if res.Status != nagios.OK {
		t.Fatalf("Status = %v, want OK (%s)", res.Status, res.Message)
	}
	want := "Last good result (30/08/2016 10:00:00) is within the last 1 days, Execution time (5 min) is within bounds"
	if res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}
	if got := res.Line(); !strings.HasSuffix(got, "|'execution_time'=5m;60;180;0;0") {
		t.Errorf("Line() = %q, missing perfdata", got)
	}
}

func TestEvaluate_AgeWarning(t *testing.T) {
	res := Evaluate(task(48*time.Hour, 5*time.Minute), DefaultThresholds(), now, "")

	if res.Status != nagios.Warning {
		t.Fatalf("Status = %v, want WARNING", res.Status)
	}
	if !strings.Contains(res.Message, "[WARN]") || !strings.Contains(res.Message, "more than 1 days old") {
		t.Errorf("Message = %q, want [WARN] with bound 1", res.Message)
	}
	if len(res.Perf) != 0 {
		t.Errorf("Perf = %v, want none for non-OK status", res.Perf)
	}
}

func TestEvaluate_AgeCritical(t *testing.T) {
	res := Evaluate(task(4*24*time.Hour, 5*time.Minute), DefaultThresholds(), now, "")
	if res.Status != nagios.Critical {
		t.Fatalf("Status = %v, want CRITICAL", res.Status)
	}
	if !strings.HasPrefix(res.Message, "[CRIT] Last good result") || !strings.Contains(res.Message, "3 days") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestEvaluate_DurationCriticalDominates(t *testing.T) {
	for _, age := range []time.Duration{time.Hour, 48 * time.Hour} {
		res := Evaluate(task(age, 200*time.Minute), DefaultThresholds(), now, "")
		if res.Status != nagios.Critical {
			t.Errorf("age %v: Status = %v, want CRITICAL", age, res.Status)
		}
		if !strings.Contains(res.Message, ", [CRIT] Execution time (200 min) is more than 180 minutes") {
			t.Errorf("age %v: Message = %q", age, res.Message)
		}
	}
}

func TestEvaluate_DurationWarning(t *testing.T) {
	res := Evaluate(task(time.Hour, 90*time.Minute), DefaultThresholds(), now, "")
	if res.Status != nagios.Warning {
		t.Fatalf("Status = %v, want WARNING", res.Status)
	}
	if !strings.Contains(res.Message, "[WARN] Execution time (90 min) is more than 60 minutes") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestEvaluate_FutureEndIsUnknown(t *testing.T) {
	res := Evaluate(task(-time.Hour, 5*time.Minute), DefaultThresholds(), now, "")
	if res.Status != nagios.Unknown {
		t.Fatalf("Status = %v, want UNKNOWN", res.Status)
	}
	if !strings.HasPrefix(res.Message, "Task date error, older than now") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestEvaluate_NegativeDurationIsUnknown(t *testing.T) {
	res := Evaluate(task(time.Hour, -10*time.Minute), DefaultThresholds(), now, "")
	if res.Status != nagios.Unknown {
		t.Fatalf("Status = %v, want UNKNOWN", res.Status)
	}
	if !strings.HasSuffix(res.Message, ", Error, execution time is negative") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestEvaluate_WarningBeatsUnknown(t *testing.T) {
	res := Evaluate(task(-time.Hour, 90*time.Minute), DefaultThresholds(), now, "")
	if res.Status != nagios.Warning {
		t.Errorf("Status = %v, want WARNING", res.Status)
	}
}

func TestEvaluate_CustomThresholdsAndLayout(t *testing.T) {
	th := Thresholds{WarningDays: 7, CriticalDays: 14, WarningMinutes: 300, CriticalMinutes: 600}
	res := Evaluate(task(48*time.Hour, 200*time.Minute), th, now, "2006-01-02 15:04")
	if res.Status != nagios.OK {
		t.Fatalf("Status = %v, want OK (%s)", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "(2016-08-28 12:00)") || !strings.Contains(res.Message, "last 7 days") {
		t.Errorf("Message = %q", res.Message)
	}
	if got := res.Line(); !strings.HasSuffix(got, "'execution_time'=200m;300;600;0;0") {
		t.Errorf("Line() = %q", got)
	}
}

func TestEvaluate_Monotonic(t *testing.T) {
	rank := map[nagios.Status]int{nagios.OK: 0, nagios.Warning: 1, nagios.Critical: 2}
	th := DefaultThresholds()

	prev := -1
	for h := 0; h <= 24*5; h += 6 {
		res := Evaluate(task(time.Duration(h)*time.Hour, time.Minute), th, now, "")
		r := rank[res.Status]
		if r < prev {
			t.Fatalf("age %dh: status %v improved on a previous worse status", h, res.Status)
		}
		prev = r
	}

	prev = -1
	for m := 0; m <= 300; m += 10 {
		res := Evaluate(task(time.Hour, time.Duration(m)*time.Minute), th, now, "")
		r := rank[res.Status]
		if r < prev {
			t.Fatalf("duration %dm: status %v improved on a previous worse status", m, res.Status)
		}
		prev = r
	}
}

func TestAgeDays(t *testing.T) {
	if got := AgeDays(task(36*time.Hour, 0), now); got != 1.5 {
		t.Errorf("AgeDays() = %v, want 1.5", got)
	}
}
