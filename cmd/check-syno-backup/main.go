// Command check-syno-backup is a monitoring plugin that reports the health of
// the latest run of a Synology backup task.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
