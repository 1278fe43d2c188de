// Package synolog reads Synology backup logs: it detects which log schema is
// present, classifies individual lines and streams a whole file into a job
// ledger.
package synolog

import "strings"

// Schema identifies one of the mutually exclusive log line formats.
type Schema int

const (
	// Undetected means no readable log with backup data was found.
	Undetected Schema = iota
	// DSM50 is the synonetbkp.log format written by DSM 5.0 and earlier.
	DSM50
	// DSM51 is the synobackup.log format written by DSM 5.1 and later.
	DSM51
)

func (s Schema) String() string {
	switch s {
	case DSM50:
		return "dsm50"
	case DSM51:
		return "dsm51"
	default:
		return "undetected"
	}
}

// MarshalText encodes s by name.
func (s Schema) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Default log locations, newer schema first.
const (
	DefaultCurrentPath = "/var/log/synolog/synobackup.log"
	DefaultLegacyPath  = "/var/log/synolog/synonetbkp.log"
)

// categoryMarkers are the backup categories tagged on DSM51 lines. The
// appliance renamed categories across releases ([Local to volume] became
// [Local], [Network to share] became [Network]) without rewriting history, so
// all spellings are kept.
var categoryMarkers = []string{
	"[Network to share]",
	"[Network to volume]",
	"[Local to volume]",
	"[Local]",
	"[Network]",
}

// legacyMarker identifies backup data in a DSM50 log.
const legacyMarker = "Network Backup started to backup task"

// startPhrase returns the text that marks a job start under s.
func (s Schema) startPhrase() string {
	if s == DSM50 {
		return legacyMarker
	}
	return "Backup task started."
}

// hasBackupData reports whether line is recognized as backup data when
// sniffing a log file for schema s.
func (s Schema) hasBackupData(line string) bool {
	switch s {
	case DSM51:
		return hasCategory(line)
	case DSM50:
		return strings.Contains(line, legacyMarker)
	default:
		return false
	}
}

// isCandidate reports whether line may carry a job event under s. Every
// DSM50 line is a candidate; DSM51 lines must carry a category marker.
func (s Schema) isCandidate(line string) bool {
	switch s {
	case DSM50:
		return true
	case DSM51:
		return hasCategory(line)
	default:
		return false
	}
}

func hasCategory(line string) bool {
	for _, m := range categoryMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
