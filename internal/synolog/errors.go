package synolog

import "errors"

// Sentinel errors for line extraction. The classifier never surfaces them as
// failures; it substitutes a placeholder and reports the anomaly.
var (
	// ErrNoTaskName is returned when a line has no bracketed task name.
	ErrNoTaskName = errors.New("no bracketed task name")

	// ErrBadTimestamp is returned when the date or time token is malformed.
	ErrBadTimestamp = errors.New("malformed timestamp")

	// ErrNoDetail is returned when an error line carries no description.
	ErrNoDetail = errors.New("no error description")

	// ErrUndetectedSchema is returned when parsing is attempted without a schema.
	ErrUndetectedSchema = errors.New("log schema not detected")
)
