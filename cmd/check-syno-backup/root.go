package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/synobackup/check-syno-backup/internal/config"
	"github.com/synobackup/check-syno-backup/internal/formatter"
	"github.com/synobackup/check-syno-backup/internal/log"
	"github.com/synobackup/check-syno-backup/internal/metrics"
	"github.com/synobackup/check-syno-backup/internal/nagios"
	"github.com/synobackup/check-syno-backup/internal/probe"
)

const programName = "check-syno-backup"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var syntaxMessage = fmt.Sprintf("Syntax Error - use %s -h for help", programName)

// errSyntax marks command-line mistakes. They all produce the same result line.
var errSyntax = errors.New("syntax error")

// options holds the raw flag values.
type options struct {
	debug   bool
	verbose bool
	output  string
	cfgFile string

	task        string
	warnDays    string
	critDays    string
	warnMinutes string
	critMinutes string
	logCurrent  string
	logLegacy   string
	metricsFile string
	licensing   bool
}

// app carries per-invocation state for the command tree.
type app struct {
	opts   options
	exit   nagios.Status
	now    func() time.Time
	stdout io.Writer
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{exit: nagios.Unknown, now: time.Now, stdout: stdout}

	if len(args) == 0 {
		a.writeResult(nagios.Result{Status: nagios.Unknown, Message: syntaxMessage})
		return nagios.Unknown.Code()
	}

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		msg := err.Error()
		if errors.Is(err, errSyntax) {
			msg = syntaxMessage
		}
		a.writeResult(nagios.Result{Status: nagios.Unknown, Message: msg})
		return nagios.Unknown.Code()
	}
	return a.exit.Code()
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   programName + ` -t "task" [flags]`,
		Short: "Check the last run of a Synology backup task",
		Long: `Scans the Synology backup log for a task, then reports on the completion
of its latest successful run as a monitoring plugin result.

The DSM 5.1+ log (synobackup.log) is read when it holds backup data,
otherwise the DSM 5.0 log (synonetbkp.log).

Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.

Examples:
  check-syno-backup -t "Daily"
  check-syno-backup -t "Daily" -w 2 -c 5 -W 90 -C 240
  check-syno-backup -t "Daily" -o json --metrics-file /var/lib/node_exporter/synobackup.prom`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected argument %q", errSyntax, args[0])
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          a.runCheck,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errSyntax, err)
	})

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.opts.debug, "debug", "d", false, "Print debug information on stderr")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Same as --debug")
	pf.StringVarP(&a.opts.output, "output", "o", "", "Output format (text, json, yaml)")
	pf.StringVar(&a.opts.cfgFile, "config", "", "Config file (default: ~/.check-syno-backup/config.yaml)")
	pf.StringVar(&a.opts.logCurrent, "log", "", "DSM 5.1+ log file")
	pf.StringVar(&a.opts.logLegacy, "legacy-log", "", "DSM 5.0 log file")

	f := root.Flags()
	f.StringVarP(&a.opts.task, "task", "t", "", "Name of the backup task to check")
	f.StringVarP(&a.opts.warnDays, "warning", "w", "", "Warn if the last good result is older than `days`")
	f.StringVarP(&a.opts.critDays, "critical", "c", "", "Critical if the last good result is older than `days`")
	f.StringVarP(&a.opts.warnMinutes, "w_execution", "W", "", "Warn if execution took longer than `minutes`")
	f.StringVarP(&a.opts.critMinutes, "c_execution", "C", "", "Critical if execution took longer than `minutes`")
	f.StringVar(&a.opts.metricsFile, "metrics-file", "", "Also write Prometheus textfile metrics to `path`")
	f.BoolVarP(&a.opts.licensing, "licensing", "l", false, "Display licensing information")

	root.AddCommand(a.newTasksCmd(), a.newConfigCmd(), a.newVersionCmd())
	return root
}

// runCheck is the plugin itself.
func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	if a.opts.licensing {
		printLicense(cmd.OutOrStdout())
		return nil
	}

	cfg, logger, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a.applyThresholds(cmd.Flags(), cfg, logger)

	report := probe.Run(cfg, a.now(), logger)

	out, err := formatter.New(cfg.Output, cfg.DateFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", errSyntax, err)
	}
	if err := out.Report(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.Export(cfg.MetricsFile, report); err != nil {
			logger.Debug("metrics export failed", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	a.exit = report.Result.Status
	return nil
}

// loadConfig layers the persistent flags and the check flags over the loaded
// configuration and builds the logger.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, loadErr := config.Load(a.opts.cfgFile)
	if a.opts.debug || a.opts.verbose {
		cfg.EnableDebug()
	}
	logger := log.New(cfg.Debug)

	if loadErr != nil {
		if !errors.Is(loadErr, config.ErrInvalidEnv) {
			return nil, logger, loadErr
		}
		logger.Debug("ignoring environment overrides", zap.Error(loadErr))
	}

	applyStringFlags(cmd.Flags(), cfg, logger, []flagBinding{
		{"output", config.KeyOutput, a.opts.output},
		{"task", config.KeyTask, a.opts.task},
		{"log", config.KeyLogsCurrent, a.opts.logCurrent},
		{"legacy-log", config.KeyLogsLegacy, a.opts.logLegacy},
		{"metrics-file", config.KeyMetricsFile, a.opts.metricsFile},
	})

	if err := cfg.Validate(); err != nil {
		return nil, logger, fmt.Errorf("%w: %v", errSyntax, err)
	}
	return cfg, logger, nil
}

// applyThresholds applies the numeric flags. Values that are not integers are
// ignored and the previous setting kept.
func (a *app) applyThresholds(flags *pflag.FlagSet, cfg *config.Config, logger *zap.Logger) {
	numeric := []flagBinding{
		{"warning", config.KeyWarningDays, a.opts.warnDays},
		{"critical", config.KeyCriticalDays, a.opts.critDays},
		{"w_execution", config.KeyWarningMinutes, a.opts.warnMinutes},
		{"c_execution", config.KeyCriticalMinutes, a.opts.critMinutes},
	}
	for _, nf := range numeric {
		if !flags.Changed(nf.name) {
			continue
		}
		if err := cfg.OverrideInt(nf.key, nf.value); err != nil {
			logger.Debug("ignoring threshold flag", zap.String("flag", nf.name), zap.Error(err))
			continue
		}
		logger.Debug("threshold set", zap.String("key", nf.key), zap.Any("value", cfg.Value(nf.key)))
	}
}

// flagBinding ties a command-line flag to a config key.
type flagBinding struct {
	name, key, value string
}

// applyStringFlags copies the flags that were set into cfg. A binding to an
// unknown key is logged and skipped.
func applyStringFlags(flags *pflag.FlagSet, cfg *config.Config, logger *zap.Logger, bindings []flagBinding) {
	for _, b := range bindings {
		if !flags.Changed(b.name) {
			continue
		}
		if err := cfg.OverrideString(b.key, b.value); err != nil {
			logger.Debug("ignoring flag", zap.String("flag", b.name), zap.Error(err))
		}
	}
}

// writeResult prints a result decided outside the probe.
func (a *app) writeResult(res nagios.Result) {
	_ = res.Write(a.stdout)
}
