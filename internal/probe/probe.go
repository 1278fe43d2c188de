// Package probe runs one check: detect the log, parse it, pick the latest
// good run of the requested task and grade it.
package probe

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/synobackup/check-syno-backup/internal/check"
	"github.com/synobackup/check-syno-backup/internal/config"
	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/nagios"
	"github.com/synobackup/check-syno-backup/internal/synolog"
)

// Result messages for outcomes decided before evaluation.
const (
	msgMissingTask = "Argument missing: name of task - use check-syno-backup -h for help"
	msgUnreadable  = "Unable to read log files. Check Unix permissions on %s (see doc)"
	msgNotFound    = "Did not find any Backup task with name [%s]"
	msgAllFailed   = "Task [%s] found in the log, but all occurrences are FAILED"
)

// Report is everything one probe run learned.
type Report struct {
	Task      string            `json:"task" yaml:"task"`
	CheckedAt time.Time         `json:"checked_at" yaml:"checked_at"`
	Result    nagios.Result     `json:"result" yaml:"result"`
	Detection synolog.Detection `json:"detection" yaml:"detection"`

	// Selected is the latest successful run, nil when none exists.
	Selected *jobs.Record `json:"-" yaml:"-"`

	// Counts tallies the finished runs of Task.
	Counts jobs.Counts `json:"counts" yaml:"counts"`

	// Scan is nil when no log was parsed.
	Scan *synolog.ParseResult `json:"scan,omitempty" yaml:"scan,omitempty"`

	// Ledger holds every finished run of every task.
	Ledger jobs.Ledger `json:"-" yaml:"-"`
}

// Run performs one check of cfg.Task at time now. It never fails: every
// problem becomes a plugin result.
func Run(cfg *config.Config, now time.Time, logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("probe")

	report := &Report{Task: cfg.Task, CheckedAt: now}

	if cfg.Task == "" {
		report.Result = nagios.Result{Status: nagios.Unknown, Message: msgMissingTask}
		return report
	}

	report.Detection = synolog.Detect(cfg.Logs.Paths(), logger.Named("detect"))
	if !report.Detection.Detected() {
		report.Result = nagios.Resultf(nagios.Unknown, msgUnreadable, logDir(cfg))
		return report
	}

	parser := synolog.NewParser(report.Detection.Schema, logger.Named("parse"))
	scan, err := parser.ParseFile(report.Detection.Path)
	if err != nil {
		logger.Debug("log read incomplete", zap.String("path", report.Detection.Path), zap.Error(err))
	}
	if scan == nil {
		report.Result = nagios.Resultf(nagios.Unknown, msgUnreadable, logDir(cfg))
		return report
	}
	report.Scan = scan
	report.Ledger = scan.Ledger
	report.Counts = scan.Ledger.Count(cfg.Task)

	logger.Debug("tasks found", zap.Strings("names", scan.Ledger.Names()))
	cutoff := now.AddDate(0, 0, -cfg.Thresholds.CriticalDays)
	for _, rec := range scan.Ledger.Since(cfg.Task, cutoff) {
		logger.Debug("recent run",
			zap.String("task", rec.Name),
			zap.Time("start", rec.Start),
			zap.Time("end", rec.End),
			zap.String("status", string(rec.Status)),
			zap.String("detail", rec.Detail),
		)
	}

	selected, exists := jobs.LatestSuccess(scan.Ledger, cfg.Task)
	switch {
	case !exists:
		report.Result = nagios.Resultf(nagios.Unknown, msgNotFound, cfg.Task)
		return report
	case selected == nil:
		report.Result = nagios.Resultf(nagios.Critical, msgAllFailed, cfg.Task)
		return report
	}

	report.Selected = selected
	logger.Debug("selected run",
		zap.String("task", selected.Name),
		zap.Time("start", selected.Start),
		zap.Time("end", selected.End),
		zap.Duration("duration", selected.Duration),
		zap.Int("line", selected.Line),
	)

	report.Result = check.Evaluate(*selected, cfg.Thresholds, now, cfg.DateFormat)
	return report
}

// logDir names the directory holding the configured logs.
func logDir(cfg *config.Config) string {
	path := cfg.Logs.Current
	if path == "" {
		path = cfg.Logs.Legacy
	}
	if path == "" {
		path = synolog.DefaultCurrentPath
	}
	return filepath.Dir(path)
}
