package synolog

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
)

// Paths holds the candidate log locations.
type Paths struct {
	// Current is the DSM 5.1+ log (synobackup.log).
	Current string
	// Legacy is the DSM 5.0 log (synonetbkp.log).
	Legacy string
}

// DefaultPaths returns the appliance's standard log locations.
func DefaultPaths() Paths {
	return Paths{Current: DefaultCurrentPath, Legacy: DefaultLegacyPath}
}

// Detection is the outcome of probing the log locations.
type Detection struct {
	Schema Schema `json:"schema" yaml:"schema"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Detected reports whether a usable log was found.
func (d Detection) Detected() bool {
	return d.Schema != Undetected
}

// Detect probes the newer log first, then the legacy one. A candidate
// qualifies when it exists, is readable and contains at least one line of
// backup data for its schema. Failure is returned as an Undetected value.
func Detect(paths Paths, logger *zap.Logger) Detection {
	if logger == nil {
		logger = zap.NewNop()
	}
	candidates := []Detection{
		{Schema: DSM51, Path: paths.Current},
		{Schema: DSM50, Path: paths.Legacy},
	}
	for _, c := range candidates {
		if c.Path == "" {
			continue
		}
		ok, err := sniff(c.Path, c.Schema)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("log file not found", zap.String("path", c.Path))
		case err != nil:
			logger.Debug("log file unreadable", zap.String("path", c.Path), zap.Error(err))
		case !ok:
			logger.Debug("log file holds no backup data", zap.String("path", c.Path))
		default:
			logger.Debug("log file detected", zap.String("path", c.Path), zap.Stringer("schema", c.Schema))
			return c
		}
	}
	logger.Debug("no usable log file", zap.String("current", paths.Current), zap.String("legacy", paths.Legacy))
	return Detection{Schema: Undetected}
}

// sniff reports whether path contains backup data for schema.
func sniff(path string, schema Schema) (found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	lines := newLineReader(f)
	for {
		line, overlong, err := lines.next()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !overlong && schema.hasBackupData(line) {
			return true, nil
		}
	}
}
