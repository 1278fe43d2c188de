package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/synobackup/check-syno-backup/internal/config"
	"github.com/synobackup/check-syno-backup/internal/formatter"
	"github.com/synobackup/check-syno-backup/internal/nagios"
)

func (a *app) newConfigCmd() *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `View the resolved check-syno-backup configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (SYNOBACKUP_*)
  3. Explicit config file (--config or SYNOBACKUP_CONFIG)
  4. Home config (~/.check-syno-backup/config.yaml)
  5. System config (/etc/check-syno-backup/config.yaml)
  6. Defaults

Environment variables:
  SYNOBACKUP_CONFIG           - Explicit config file path
  SYNOBACKUP_TASK             - Task to check
  SYNOBACKUP_WARNING_DAYS     - Age warning threshold (days)
  SYNOBACKUP_CRITICAL_DAYS    - Age critical threshold (days)
  SYNOBACKUP_WARNING_MINUTES  - Execution time warning threshold (minutes)
  SYNOBACKUP_CRITICAL_MINUTES - Execution time critical threshold (minutes)
  SYNOBACKUP_LOG_CURRENT      - DSM 5.1+ log file
  SYNOBACKUP_LOG_LEGACY       - DSM 5.0 log file
  SYNOBACKUP_OUTPUT           - Output format (text, json, yaml)
  SYNOBACKUP_DATE_FORMAT      - Go time layout for dates in messages
  SYNOBACKUP_DEBUG            - Enable debug output (true/false)
  SYNOBACKUP_METRICS_FILE     - Prometheus textfile path

Examples:
  check-syno-backup config --show           # Show resolved configuration
  check-syno-backup config --show -o json   # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !show {
				return cmd.Help()
			}
			return a.runConfigShow(cmd)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Show resolved configuration with sources")
	return cmd
}

func (a *app) runConfigShow(cmd *cobra.Command) error {
	cfg, _, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	resolved := cfg.Resolve()
	w := cmd.OutOrStdout()

	switch cfg.Output {
	case formatter.FormatJSON, formatter.FormatYAML:
		if err := encodeResolved(w, cfg.Output, resolved); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	default:
		tbl := formatter.NewTable(w, "KEY", "VALUE", "SOURCE")
		for _, r := range resolved {
			tbl.AddRow(r.Key, fmt.Sprint(r.Value), string(r.Source))
		}
		if err := tbl.Render(); err != nil {
			return err
		}
	}
	a.exit = nagios.OK
	return nil
}

func encodeResolved(w io.Writer, format string, resolved []config.Resolved) error {
	if format == formatter.FormatJSON {
		return formatter.WriteJSON(w, resolved)
	}
	return formatter.WriteYAML(w, resolved)
}
