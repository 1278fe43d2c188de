package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synobackup/check-syno-backup/internal/formatter"
	"github.com/synobackup/check-syno-backup/internal/nagios"
	"github.com/synobackup/check-syno-backup/internal/synolog"
)

func (a *app) newTasksCmd() *cobra.Command {
	var sinceDays int
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List finished backup runs found in the log",
		Long: `List every finished backup run in the detected log, oldest first.

Runs that started but never reported an outcome are not listed.

Examples:
  check-syno-backup tasks
  check-syno-backup tasks -t "Daily" --since 7
  check-syno-backup tasks -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTasks(cmd, sinceDays)
		},
	}
	cmd.Flags().StringVarP(&a.opts.task, "task", "t", "", "Only list runs of this task")
	cmd.Flags().IntVar(&sinceDays, "since", 0, "Only list runs started in the last `days` (0 = all)")
	return cmd
}

func (a *app) runTasks(cmd *cobra.Command, sinceDays int) error {
	cfg, logger, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	det := synolog.Detect(cfg.Logs.Paths(), logger.Named("detect"))
	if !det.Detected() {
		return fmt.Errorf("no readable backup log at %s or %s", cfg.Logs.Current, cfg.Logs.Legacy)
	}
	scan, err := synolog.NewParser(det.Schema, logger.Named("parse")).ParseFile(det.Path)
	if err != nil {
		if scan == nil {
			return err
		}
		logger.Debug("log read incomplete", zap.Error(err))
	}

	var cutoff time.Time
	if sinceDays > 0 {
		cutoff = a.now().AddDate(0, 0, -sinceDays)
	}
	ledger := scan.Ledger.Since(cfg.Task, cutoff)

	out, err := formatter.New(cfg.Output, cfg.DateFormat)
	if err != nil {
		return fmt.Errorf("%w: %v", errSyntax, err)
	}
	if err := out.Records(cmd.OutOrStdout(), ledger); err != nil {
		return fmt.Errorf("write runs: %w", err)
	}
	a.exit = nagios.OK
	return nil
}
