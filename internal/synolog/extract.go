package synolog

import (
	"fmt"
	"strings"
	"time"
)

// Placeholders substituted when extraction fails.
const (
	UnknownTaskName = "<Unknown>"
	UnknownDetail   = "<Unable to get error description>"
)

// FarPast is the timestamp given to lines whose date cannot be parsed. It
// sorts before every real log entry.
var FarPast = time.Date(1000, 1, 1, 1, 1, 1, 0, time.Local)

// systemMarker precedes the message text on DSM50 lines.
const systemMarker = "SYSTEM:"

// timestampLayout matches the second and third whitespace tokens of a line.
const timestampLayout = "2006/1/2 15:4:5"

// after returns the text following the first sep.
func after(s, sep string) (string, bool) {
	_, rest, found := strings.Cut(s, sep)
	return rest, found
}

// between returns the text between the first open and the next close after it.
func between(s, open, close string) (string, bool) {
	rest, ok := after(s, open)
	if !ok {
		return "", false
	}
	inner, _, found := strings.Cut(rest, close)
	return inner, found
}

// normalizeASCII replaces every rune outside printable ASCII with '?'.
func normalizeASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r < 127 {
			return r
		}
		return '?'
	}, s)
}

// TaskName extracts the bracketed task name. Under DSM51 the leading category
// bracket is skipped.
func TaskName(line string, schema Schema) (string, error) {
	s := line
	if schema == DSM51 {
		rest, ok := after(line, "]")
		if !ok {
			return "", ErrNoTaskName
		}
		s = rest
	}
	name, ok := between(s, "[", "]")
	if !ok {
		return "", ErrNoTaskName
	}
	return name, nil
}

// Timestamp parses the YYYY/MM/DD and HH:MM:SS tokens of a line as local time.
func Timestamp(line string) (time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("%w: expected date and time tokens", ErrBadTimestamp)
	}
	ts, err := time.ParseInLocation(timestampLayout, fields[1]+" "+fields[2], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadTimestamp, err)
	}
	return ts, nil
}

// ErrorDetail extracts the failure description of an error line.
func ErrorDetail(line string, schema Schema) (string, error) {
	switch schema {
	case DSM50:
		msg, ok := between(line, systemMarker, "[")
		if !ok {
			return "", ErrNoDetail
		}
		return normalizeASCII(strings.TrimSpace(msg)), nil
	case DSM51:
		first, ok := after(line, "]")
		if !ok {
			return "", ErrNoDetail
		}
		msg, ok := after(first, "]")
		if !ok {
			return "", ErrNoDetail
		}
		return strings.TrimSpace(msg), nil
	default:
		return "", ErrUndetectedSchema
	}
}
