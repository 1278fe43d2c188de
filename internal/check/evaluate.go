// Package check grades a finished backup run against age and duration
// thresholds.
package check

import (
	"fmt"
	"time"

	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/nagios"
)

// DefaultDateLayout renders dates as DD/MM/YYYY HH:MM:SS.
const DefaultDateLayout = "02/01/2006 15:04:05"

// Default threshold values.
const (
	DefaultWarningDays     = 1
	DefaultCriticalDays    = 3
	DefaultWarningMinutes  = 60
	DefaultCriticalMinutes = 180
)

// Thresholds bounds the age of the last good run (days) and its execution
// time (minutes).
type Thresholds struct {
	WarningDays     int `yaml:"warning_days" json:"warning_days"`
	CriticalDays    int `yaml:"critical_days" json:"critical_days"`
	WarningMinutes  int `yaml:"warning_minutes" json:"warning_minutes"`
	CriticalMinutes int `yaml:"critical_minutes" json:"critical_minutes"`
}

// DefaultThresholds returns the compiled-in bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WarningDays:     DefaultWarningDays,
		CriticalDays:    DefaultCriticalDays,
		WarningMinutes:  DefaultWarningMinutes,
		CriticalMinutes: DefaultCriticalMinutes,
	}
}

// logicErrorMessage reports a status combination outside the known ordering.
const logicErrorMessage = "Error in check logic. This should not happen."

// Evaluate grades task at time now. The age and duration checks are combined
// by severity: CRITICAL > WARNING > UNKNOWN > OK. dateLayout formats the end
// time in the message; an empty layout uses DefaultDateLayout.
func Evaluate(task jobs.Record, th Thresholds, now time.Time, dateLayout string) nagios.Result {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}

	ageStatus, ageMsg := checkAge(task, th, now, dateLayout)
	minutes := task.Duration.Minutes()
	durStatus, durMsg := checkDuration(minutes, th)

	status, ok := nagios.Worst(ageStatus, durStatus)
	if !ok {
		return nagios.Result{Status: nagios.Unknown, Message: logicErrorMessage}
	}

	res := nagios.Result{Status: status, Message: ageMsg + ", " + durMsg}
	if status == nagios.OK {
		res.Perf = []nagios.PerfData{{
			Label: "execution_time",
			Value: int(minutes),
			UOM:   "m",
			Warn:  th.WarningMinutes,
			Crit:  th.CriticalMinutes,
		}}
	}
	return res
}

// AgeDays returns the time elapsed since the task ended, in fractional days.
func AgeDays(task jobs.Record, now time.Time) float64 {
	return now.Sub(task.End).Seconds() / 86400
}

func checkAge(task jobs.Record, th Thresholds, now time.Time, layout string) (nagios.Status, string) {
	age := AgeDays(task, now)
	date := task.End.Format(layout)
	switch {
	case age > float64(th.CriticalDays):
		return nagios.Critical, fmt.Sprintf("[CRIT] Last good result (%s) is more than %d days old", date, th.CriticalDays)
	case age > float64(th.WarningDays):
		return nagios.Warning, fmt.Sprintf("[WARN] Last good result (%s) is more than %d days old", date, th.WarningDays)
	case age < 0:
		return nagios.Unknown, "Task date error, older than now"
	default:
		return nagios.OK, fmt.Sprintf("Last good result (%s) is within the last %d days", date, th.WarningDays)
	}
}

func checkDuration(minutes float64, th Thresholds) (nagios.Status, string) {
	switch {
	case minutes > float64(th.CriticalMinutes):
		return nagios.Critical, fmt.Sprintf("[CRIT] Execution time (%d min) is more than %d minutes", int(minutes), th.CriticalMinutes)
	case minutes > float64(th.WarningMinutes):
		return nagios.Warning, fmt.Sprintf("[WARN] Execution time (%d min) is more than %d minutes", int(minutes), th.WarningMinutes)
	case minutes < 0:
		return nagios.Unknown, "Error, execution time is negative"
	default:
		return nagios.OK, fmt.Sprintf("Execution time (%d min) is within bounds", int(minutes))
	}
}
