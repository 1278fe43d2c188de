package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/synobackup/check-syno-backup/internal/config"
	"github.com/synobackup/check-syno-backup/internal/log"
)

// isolate keeps home config and SYNOBACKUP_* variables out of the run.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "SYNOBACKUP_") {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

// writeLogs creates a DSM 5.1 log holding one successful five minute run of
// task that ended age ago, and returns the log flags pointing at it.
func writeLogs(t *testing.T, task string, age time.Duration) []string {
	t.Helper()
	dir := t.TempDir()
	end := time.Now().Add(-age)
	start := end.Add(-5 * time.Minute)
	stamp := func(ts time.Time) string { return ts.Format("2006/01/02 15:04:05") }
	lines := []string{
		"info\t" + stamp(start) + "\tSYSTEM:\t[Local][" + task + "] Backup task started.",
		"info\t" + stamp(end) + "\tSYSTEM:\t[Local][" + task + "] Backup task finished successfully.",
	}
	current := filepath.Join(dir, "synobackup.log")
	if err := os.WriteFile(current, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return []string{"--log", current, "--legacy-log", filepath.Join(dir, "synonetbkp.log")}
}

func run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String()
}

const syntaxLine = "UNKNOWN: Syntax Error - use check-syno-backup -h for help\n"

func TestExecute_NoArguments(t *testing.T) {
	code, out := run(t)
	if code != 3 || out != syntaxLine {
		t.Errorf("execute() = %d, %q; want 3, %q", code, out, syntaxLine)
	}
}

func TestExecute_SyntaxErrors(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{
		{"--bogus"},
		{"-t"},
		{"-t", "Daily", "stray"},
		{"-t", "Daily", "-o", "xml"},
	} {
		code, out := run(t, args...)
		if code != 3 || out != syntaxLine {
			t.Errorf("execute(%q) = %d, %q; want syntax error", args, code, out)
		}
	}
}

func TestExecute_HelpExitsUnknown(t *testing.T) {
	code, out := run(t, "-h")
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if !strings.Contains(out, "Usage:") || !strings.Contains(out, "--w_execution") {
		t.Errorf("help output missing usage:\n%s", out)
	}
}

func TestExecute_LicensingExitsUnknown(t *testing.T) {
	code, out := run(t, "-l")
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if !strings.Contains(out, "GNU General Public License") {
		t.Errorf("licensing output = %q", out)
	}
}

func TestExecute_MissingTask(t *testing.T) {
	isolate(t)
	code, out := run(t, "-d")
	if code != 3 || !strings.HasPrefix(out, "UNKNOWN: Argument missing: name of task") {
		t.Errorf("execute() = %d, %q", code, out)
	}
}

func TestExecute_Healthy(t *testing.T) {
	isolate(t)
	args := append([]string{"-t", "Daily"}, writeLogs(t, "Daily", 2*time.Hour)...)

	code, out := run(t, args...)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (%s)", code, out)
	}
	if !strings.HasPrefix(out, "OK: Last good result") || !strings.HasSuffix(out, "|'execution_time'=5m;60;180;0;0\n") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("output should be exactly one line: %q", out)
	}
}

func TestExecute_Thresholds(t *testing.T) {
	isolate(t)
	logs := writeLogs(t, "Daily", 30*time.Hour)

	code, out := run(t, append([]string{"-t", "Daily"}, logs...)...)
	if code != 1 || !strings.Contains(out, "[WARN]") {
		t.Errorf("default thresholds: %d, %q; want WARNING", code, out)
	}

	code, out = run(t, append([]string{"-t", "Daily", "-w", "2", "-W", "10"}, logs...)...)
	if code != 0 || !strings.Contains(out, "'execution_time'=5m;10;180;0;0") {
		t.Errorf("raised thresholds: %d, %q; want OK", code, out)
	}

	code, out = run(t, append([]string{"-t", "Daily", "--critical", "1"}, logs...)...)
	if code != 2 || !strings.Contains(out, "[CRIT]") {
		t.Errorf("lowered critical: %d, %q; want CRITICAL", code, out)
	}
}

func TestExecute_MalformedThresholdIgnored(t *testing.T) {
	isolate(t)
	args := append([]string{"-t", "Daily", "-w", "abc", "-C", "1.5"}, writeLogs(t, "Daily", 2*time.Hour)...)

	code, out := run(t, args...)
	if code != 0 || !strings.Contains(out, ";60;180;0;0") {
		t.Errorf("execute() = %d, %q; want defaults kept", code, out)
	}
}

func TestExecute_NotFound(t *testing.T) {
	isolate(t)
	args := append([]string{"-t", "Weekly"}, writeLogs(t, "Daily", time.Hour)...)

	code, out := run(t, args...)
	if code != 3 || out != "UNKNOWN: Did not find any Backup task with name [Weekly]\n" {
		t.Errorf("execute() = %d, %q", code, out)
	}
}

func TestExecute_NoReadableLog(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	code, out := run(t, "-t", "Daily", "--log", filepath.Join(dir, "a.log"), "--legacy-log", filepath.Join(dir, "b.log"))
	if code != 3 || !strings.Contains(out, "Check Unix permissions on "+dir) {
		t.Errorf("execute() = %d, %q", code, out)
	}
}

func TestExecute_JSONOutput(t *testing.T) {
	isolate(t)
	args := append([]string{"-t", "Daily", "-o", "json"}, writeLogs(t, "Daily", time.Hour)...)

	code, out := run(t, args...)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (%s)", code, out)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("expected JSON output, got: %q (%v)", out, err)
	}
	if parsed["task"] != "Daily" {
		t.Errorf("task = %v, want Daily", parsed["task"])
	}
}

func TestExecute_EnvironmentTask(t *testing.T) {
	isolate(t)
	t.Setenv("SYNOBACKUP_TASK", "Daily")

	code, out := run(t, writeLogs(t, "Daily", time.Hour)...)
	if code != 0 {
		t.Errorf("execute() = %d, %q; want OK from SYNOBACKUP_TASK", code, out)
	}
}

func TestExecute_MissingConfigFile(t *testing.T) {
	isolate(t)
	code, out := run(t, "-t", "Daily", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if code != 3 || !strings.HasPrefix(out, "UNKNOWN: load config") {
		t.Errorf("execute() = %d, %q", code, out)
	}
}

func TestExecute_MetricsFile(t *testing.T) {
	isolate(t)
	prom := filepath.Join(t.TempDir(), "synobackup.prom")
	args := append([]string{"-t", "Daily", "--metrics-file", prom}, writeLogs(t, "Daily", time.Hour)...)

	if code, out := run(t, args...); code != 0 {
		t.Fatalf("execute() = %d, %q", code, out)
	}
	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `synobackup_check_status{task="Daily"} 0`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestApplyStringFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("task", "", "")
	flags.String("bogus", "", "")
	flags.String("log", "", "")
	if err := flags.Parse([]string{"--task", "Daily", "--bogus", "x"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	cfg := config.Default()
	applyStringFlags(flags, cfg, log.NewWriter(&buf), []flagBinding{
		{"task", config.KeyTask, "Daily"},
		{"bogus", "no.such.key", "x"},
		{"log", config.KeyLogsCurrent, "/unset.log"},
	})

	if cfg.Task != "Daily" || cfg.Sources[config.KeyTask] != config.SourceFlag {
		t.Errorf("Task = %q (%s), want Daily from flag", cfg.Task, cfg.Sources[config.KeyTask])
	}
	if cfg.Logs.Current == "/unset.log" {
		t.Error("unchanged flag should not override the config")
	}
	if out := buf.String(); !strings.Contains(out, "ignoring flag") || !strings.Contains(out, "bogus") {
		t.Errorf("debug log = %q, want the unknown key reported", out)
	}
}
