// Package metrics exports a probe report in the Prometheus textfile format,
// for pickup by a node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/synobackup/check-syno-backup/internal/check"
	"github.com/synobackup/check-syno-backup/internal/jobs"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

const (
	namespace = "synobackup"

	// Labels
	taskLabel   = "task"
	statusLabel = "status"
)

// Collector holds the gauges describing one report.
type Collector struct {
	registry *prometheus.Registry

	status       *prometheus.GaugeVec
	lastSuccess  *prometheus.GaugeVec
	duration     *prometheus.GaugeVec
	ageDays      *prometheus.GaugeVec
	runs         *prometheus.GaugeVec
	scannedLines prometheus.Gauge
}

// NewCollector registers the gauges on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_status",
			Help:      "Plugin status of the last check (0=OK, 1=WARNING, 2=CRITICAL, 3=UNKNOWN).",
		}, []string{taskLabel}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "End time of the latest successful run.",
		}, []string{taskLabel}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_duration_seconds",
			Help:      "Execution time of the latest successful run.",
		}, []string{taskLabel}),
		ageDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_age_days",
			Help:      "Days elapsed since the latest successful run ended.",
		}, []string{taskLabel}),
		runs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs",
			Help:      "Finished runs found in the log, by status.",
		}, []string{taskLabel, statusLabel}),
		scannedLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_lines_scanned",
			Help:      "Lines read from the backup log.",
		}),
	}
	c.registry.MustRegister(c.status, c.lastSuccess, c.duration, c.ageDays, c.runs, c.scannedLines)
	return c
}

// Observe sets the gauges from report.
func (c *Collector) Observe(report *probe.Report) {
	task := report.Task
	c.status.WithLabelValues(task).Set(float64(report.Result.Status.Code()))
	c.runs.WithLabelValues(task, string(jobs.StatusOK)).Set(float64(report.Counts.OK))
	c.runs.WithLabelValues(task, string(jobs.StatusCritical)).Set(float64(report.Counts.Critical))

	if sel := report.Selected; sel != nil {
		c.lastSuccess.WithLabelValues(task).Set(float64(sel.End.Unix()))
		c.duration.WithLabelValues(task).Set(sel.Duration.Seconds())
		c.ageDays.WithLabelValues(task).Set(check.AgeDays(*sel, report.CheckedAt))
	}
	if report.Scan != nil {
		c.scannedLines.Set(float64(report.Scan.TotalLines))
	}
}

// Registry exposes the underlying gatherer.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteFile writes the gauges to path. The file is replaced atomically.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Export observes report and writes it to path in one step.
func Export(path string, report *probe.Report) error {
	c := NewCollector()
	c.Observe(report)
	return c.WriteFile(path)
}
