package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConfigShow_Table(t *testing.T) {
	isolate(t)
	t.Setenv("SYNOBACKUP_WARNING_DAYS", "4")

	code, out := run(t, "config", "--show")
	if code != 0 {
		t.Fatalf("exit code = %d (%s)", code, out)
	}
	for _, want := range []string{"KEY", "thresholds.warning_days", "4", "environment", "default"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_JSON(t *testing.T) {
	isolate(t)
	code, out := run(t, "config", "--show", "-o", "json", "--log", "/srv/synobackup.log")
	if code != 0 {
		t.Fatalf("exit code = %d (%s)", code, out)
	}

	var resolved []struct {
		Key    string `json:"key"`
		Value  any    `json:"value"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &resolved); err != nil {
		t.Fatalf("expected JSON output, got: %q (%v)", out, err)
	}
	for _, r := range resolved {
		if r.Key == "logs.current" {
			if r.Value != "/srv/synobackup.log" || r.Source != "flag" {
				t.Errorf("logs.current = %v from %s", r.Value, r.Source)
			}
			return
		}
	}
	t.Error("logs.current missing from output")
}

func TestConfig_WithoutShowPrintsHelp(t *testing.T) {
	code, out := run(t, "config")
	if code != 3 || !strings.Contains(out, "Configuration priority") {
		t.Errorf("execute() = %d, %q", code, out)
	}
}

func TestVersion(t *testing.T) {
	code, out := run(t, "version")
	if code != 0 || !strings.HasPrefix(out, "check-syno-backup version dev") {
		t.Errorf("execute() = %d, %q", code, out)
	}
}
