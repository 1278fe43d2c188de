// Package config provides configuration management for check-syno-backup.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (SYNOBACKUP_*)
// 3. Explicit config file (--config or SYNOBACKUP_CONFIG)
// 4. Home config (~/.check-syno-backup/config.yaml)
// 5. System config (/etc/check-syno-backup/config.yaml)
// 6. Defaults
//
// The resulting Config is built once at startup and treated as read-only.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/synobackup/check-syno-backup/internal/check"
	"github.com/synobackup/check-syno-backup/internal/synolog"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SYNOBACKUP"

// SystemConfigPath is the machine-wide config file.
const SystemConfigPath = "/etc/check-syno-backup/config.yaml"

// Config holds all check-syno-backup configuration.
type Config struct {
	// Task is the backup job to check.
	Task string `yaml:"task,omitempty" json:"task,omitempty"`

	// Thresholds bounds task age and execution time.
	Thresholds check.Thresholds `yaml:"thresholds" json:"thresholds"`

	// Logs holds the candidate log file locations.
	Logs LogsConfig `yaml:"logs" json:"logs"`

	// Output controls the output format (text, json, yaml).
	Output string `yaml:"output" json:"output"`

	// DateFormat is the Go time layout used in result messages.
	DateFormat string `yaml:"date_format" json:"date_format"`

	// Debug enables debug logging on stderr.
	Debug bool `yaml:"debug" json:"debug"`

	// MetricsFile, when set, receives a Prometheus textfile export.
	MetricsFile string `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`

	// Sources records which layer supplied each key.
	Sources map[string]Source `yaml:"-" json:"-"`
}

// LogsConfig holds the log file locations, newer schema first.
type LogsConfig struct {
	// Current is the DSM 5.1+ log. Default: /var/log/synolog/synobackup.log
	Current string `yaml:"current" json:"current"`
	// Legacy is the DSM 5.0 log. Default: /var/log/synolog/synonetbkp.log
	Legacy string `yaml:"legacy" json:"legacy"`
}

// Paths converts the log locations for the detector.
func (l LogsConfig) Paths() synolog.Paths {
	return synolog.Paths{Current: l.Current, Legacy: l.Legacy}
}

// Config keys used in Sources.
const (
	KeyTask            = "task"
	KeyWarningDays     = "thresholds.warning_days"
	KeyCriticalDays    = "thresholds.critical_days"
	KeyWarningMinutes  = "thresholds.warning_minutes"
	KeyCriticalMinutes = "thresholds.critical_minutes"
	KeyLogsCurrent     = "logs.current"
	KeyLogsLegacy      = "logs.legacy"
	KeyOutput          = "output"
	KeyDateFormat      = "date_format"
	KeyDebug           = "debug"
	KeyMetricsFile     = "metrics_file"
)

// Keys lists every config key in display order.
var Keys = []string{
	KeyTask,
	KeyWarningDays, KeyCriticalDays, KeyWarningMinutes, KeyCriticalMinutes,
	KeyLogsCurrent, KeyLogsLegacy,
	KeyOutput, KeyDateFormat, KeyDebug, KeyMetricsFile,
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceSystem   Source = "system"
	SourceHome     Source = "home"
	SourceExplicit Source = "config file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

const defaultOutput = "text"

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		Thresholds: check.DefaultThresholds(),
		Logs: LogsConfig{
			Current: synolog.DefaultCurrentPath,
			Legacy:  synolog.DefaultLegacyPath,
		},
		Output:     defaultOutput,
		DateFormat: check.DefaultDateLayout,
		Sources:    make(map[string]Source),
	}
	for _, k := range Keys {
		cfg.Sources[k] = SourceDefault
	}
	return cfg
}

// Load builds the configuration from defaults, config files and the
// environment. explicitPath, when non-empty, names a config file that must
// exist. Flags are applied by the caller afterwards.
//
// A malformed environment variable is reported as an error alongside a usable
// Config that omits the environment layer.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	if sys, _ := loadFromPath(SystemConfigPath); sys != nil {
		merge(cfg, sys, SourceSystem)
	}
	if home, _ := loadFromPath(homeConfigPath()); home != nil {
		merge(cfg, home, SourceHome)
	}

	if explicitPath == "" {
		explicitPath = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if explicitPath != "" {
		explicit, err := loadFromPath(explicitPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", explicitPath, err)
		}
		merge(cfg, explicit, SourceExplicit)
	}

	if err := applyEnv(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".check-syno-backup", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	return &cfg, nil
}

// envOverrides is decoded from SYNOBACKUP_* variables, e.g. WarningDays from
// SYNOBACKUP_WARNING_DAYS. Unprefixed names are never consulted. Pointer
// fields stay nil when the variable is unset.
type envOverrides struct {
	Task            *string `split_words:"true"`
	WarningDays     *int    `split_words:"true"`
	CriticalDays    *int    `split_words:"true"`
	WarningMinutes  *int    `split_words:"true"`
	CriticalMinutes *int    `split_words:"true"`
	LogCurrent      *string `split_words:"true"`
	LogLegacy       *string `split_words:"true"`
	Output          *string `split_words:"true"`
	DateFormat      *string `split_words:"true"`
	Debug           *bool   `split_words:"true"`
	MetricsFile     *string `split_words:"true"`
}

// applyEnv applies environment variable overrides. Nothing is applied when any
// variable fails to decode.
func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}

	setStr := func(key string, dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
			cfg.Sources[key] = SourceEnv
		}
	}
	setInt := func(key string, dst *int, v *int) {
		if v != nil {
			*dst = *v
			cfg.Sources[key] = SourceEnv
		}
	}

	setStr(KeyTask, &cfg.Task, env.Task)
	setInt(KeyWarningDays, &cfg.Thresholds.WarningDays, env.WarningDays)
	setInt(KeyCriticalDays, &cfg.Thresholds.CriticalDays, env.CriticalDays)
	setInt(KeyWarningMinutes, &cfg.Thresholds.WarningMinutes, env.WarningMinutes)
	setInt(KeyCriticalMinutes, &cfg.Thresholds.CriticalMinutes, env.CriticalMinutes)
	setStr(KeyLogsCurrent, &cfg.Logs.Current, env.LogCurrent)
	setStr(KeyLogsLegacy, &cfg.Logs.Legacy, env.LogLegacy)
	setStr(KeyOutput, &cfg.Output, env.Output)
	setStr(KeyDateFormat, &cfg.DateFormat, env.DateFormat)
	setStr(KeyMetricsFile, &cfg.MetricsFile, env.MetricsFile)
	if env.Debug != nil {
		cfg.Debug = *env.Debug
		cfg.Sources[KeyDebug] = SourceEnv
	}
	return nil
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(cfg *Config, key string, dst *string, src string, from Source) {
	if src != "" {
		*dst = src
		cfg.Sources[key] = from
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt(cfg *Config, key string, dst *int, src int, from Source) {
	if src != 0 {
		*dst = src
		cfg.Sources[key] = from
	}
}

// merge merges src into dst, with src values taking precedence. Zero values
// in src mean "unset".
func merge(dst, src *Config, from Source) {
	mergeStr(dst, KeyTask, &dst.Task, src.Task, from)
	mergeThresholds(dst, &src.Thresholds, from)
	mergeLogs(dst, &src.Logs, from)
	mergeStr(dst, KeyOutput, &dst.Output, src.Output, from)
	mergeStr(dst, KeyDateFormat, &dst.DateFormat, src.DateFormat, from)
	mergeStr(dst, KeyMetricsFile, &dst.MetricsFile, src.MetricsFile, from)
	if src.Debug {
		dst.Debug = true
		dst.Sources[KeyDebug] = from
	}
}

// mergeThresholds merges threshold fields.
func mergeThresholds(dst *Config, src *check.Thresholds, from Source) {
	mergeInt(dst, KeyWarningDays, &dst.Thresholds.WarningDays, src.WarningDays, from)
	mergeInt(dst, KeyCriticalDays, &dst.Thresholds.CriticalDays, src.CriticalDays, from)
	mergeInt(dst, KeyWarningMinutes, &dst.Thresholds.WarningMinutes, src.WarningMinutes, from)
	mergeInt(dst, KeyCriticalMinutes, &dst.Thresholds.CriticalMinutes, src.CriticalMinutes, from)
}

// mergeLogs merges log path fields.
func mergeLogs(dst *Config, src *LogsConfig, from Source) {
	mergeStr(dst, KeyLogsCurrent, &dst.Logs.Current, src.Current, from)
	mergeStr(dst, KeyLogsLegacy, &dst.Logs.Legacy, src.Legacy, from)
}

// Value returns the display value of key.
func (c *Config) Value(key string) any {
	switch key {
	case KeyTask:
		return c.Task
	case KeyWarningDays:
		return c.Thresholds.WarningDays
	case KeyCriticalDays:
		return c.Thresholds.CriticalDays
	case KeyWarningMinutes:
		return c.Thresholds.WarningMinutes
	case KeyCriticalMinutes:
		return c.Thresholds.CriticalMinutes
	case KeyLogsCurrent:
		return c.Logs.Current
	case KeyLogsLegacy:
		return c.Logs.Legacy
	case KeyOutput:
		return c.Output
	case KeyDateFormat:
		return c.DateFormat
	case KeyDebug:
		return c.Debug
	case KeyMetricsFile:
		return c.MetricsFile
	default:
		return nil
	}
}

// Resolved is a config value with the layer it came from.
type Resolved struct {
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// Resolve lists every key with its value and source.
func (c *Config) Resolve() []Resolved {
	out := make([]Resolved, 0, len(Keys))
	for _, k := range Keys {
		src, ok := c.Sources[k]
		if !ok {
			src = SourceDefault
		}
		out = append(out, Resolved{Key: k, Value: c.Value(k), Source: src})
	}
	return out
}

// intField returns the numeric field for key, or nil.
func (c *Config) intField(key string) *int {
	switch key {
	case KeyWarningDays:
		return &c.Thresholds.WarningDays
	case KeyCriticalDays:
		return &c.Thresholds.CriticalDays
	case KeyWarningMinutes:
		return &c.Thresholds.WarningMinutes
	case KeyCriticalMinutes:
		return &c.Thresholds.CriticalMinutes
	default:
		return nil
	}
}

// OverrideInt applies a command-line numeric override. A value that is not an
// integer leaves the current setting untouched and returns ErrInvalidNumber.
func (c *Config) OverrideInt(key, raw string) error {
	field := c.intField(key)
	if field == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, raw)
	}
	*field = v
	c.Sources[key] = SourceFlag
	return nil
}

// OverrideString applies a command-line string override.
func (c *Config) OverrideString(key, v string) error {
	var field *string
	switch key {
	case KeyTask:
		field = &c.Task
	case KeyLogsCurrent:
		field = &c.Logs.Current
	case KeyLogsLegacy:
		field = &c.Logs.Legacy
	case KeyOutput:
		field = &c.Output
	case KeyDateFormat:
		field = &c.DateFormat
	case KeyMetricsFile:
		field = &c.MetricsFile
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	*field = v
	c.Sources[key] = SourceFlag
	return nil
}

// EnableDebug turns debug logging on from the command line.
func (c *Config) EnableDebug() {
	c.Debug = true
	c.Sources[KeyDebug] = SourceFlag
}

// Output formats accepted by Validate.
var outputFormats = []string{"text", "json", "yaml"}

// Validate checks values that cannot be recovered from by falling back.
func (c *Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidOutput, c.Output, strings.Join(outputFormats, ", "))
	}
	return nil
}
