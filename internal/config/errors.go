package config

import "errors"

// Sentinel errors for configuration loading.
var (
	// ErrInvalidFile is returned when a config file is not valid YAML.
	ErrInvalidFile = errors.New("invalid config file")

	// ErrInvalidEnv is returned when a SYNOBACKUP_* variable cannot be decoded.
	ErrInvalidEnv = errors.New("invalid environment override")

	// ErrInvalidNumber is returned when a numeric override is not an integer.
	ErrInvalidNumber = errors.New("not an integer")

	// ErrInvalidOutput is returned for an unsupported output format.
	ErrInvalidOutput = errors.New("unsupported output format")

	// ErrUnknownKey is returned for an override of a key that does not exist.
	ErrUnknownKey = errors.New("unknown config key")
)
