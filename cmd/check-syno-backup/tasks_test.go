package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTasks_Table(t *testing.T) {
	isolate(t)
	code, out := run(t, append([]string{"tasks"}, writeLogs(t, "Daily", time.Hour)...)...)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (%s)", code, out)
	}
	for _, want := range []string{"TASK", "Daily", "OK", "Task finished successfully"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTasks_FilterAndSince(t *testing.T) {
	isolate(t)
	logs := writeLogs(t, "Daily", 3*24*time.Hour)

	code, out := run(t, append([]string{"tasks", "--since", "1"}, logs...)...)
	if code != 0 || !strings.Contains(out, "No finished backup runs") {
		t.Errorf("--since 1: %d, %q", code, out)
	}

	code, out = run(t, append([]string{"tasks", "-t", "Other"}, logs...)...)
	if code != 0 || !strings.Contains(out, "No finished backup runs") {
		t.Errorf("-t Other: %d, %q", code, out)
	}
}

func TestTasks_JSONLines(t *testing.T) {
	isolate(t)
	code, out := run(t, append([]string{"tasks", "-o", "json"}, writeLogs(t, "Daily", time.Hour)...)...)
	if code != 0 {
		t.Fatalf("exit code = %d (%s)", code, out)
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
		t.Fatalf("expected one JSON line, got %q (%v)", out, err)
	}
	if int(rec["duration_minutes"].(float64)) != 5 {
		t.Errorf("duration_minutes = %v, want 5", rec["duration_minutes"])
	}
}

func TestTasks_NoLog(t *testing.T) {
	isolate(t)
	code, out := run(t, "tasks", "--log", "/nonexistent/a.log", "--legacy-log", "/nonexistent/b.log")
	if code != 3 || !strings.HasPrefix(out, "UNKNOWN: no readable backup log") {
		t.Errorf("execute() = %d, %q", code, out)
	}
}
