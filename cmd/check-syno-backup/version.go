package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/synobackup/check-syno-backup/internal/nagios"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version, build information, and runtime details.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s version %s\n", programName, version)
			fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			a.exit = nagios.OK
		},
	}
}
