package synolog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/synobackup/check-syno-backup/internal/jobs"
)

// Parser streams a backup log through the classifier into a job tracker.
type Parser struct {
	// Schema selects the line format. It must not be Undetected.
	Schema Schema

	// Logger receives per-line debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewParser creates a parser for schema.
func NewParser(schema Schema, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{Schema: schema, Logger: logger}
}

// ParseResult is the outcome of one full scan.
type ParseResult struct {
	// Ledger holds finished runs in file order.
	Ledger jobs.Ledger `json:"-" yaml:"-"`

	// Pending names jobs that started but never terminated. They are not in
	// the ledger.
	Pending []string `json:"pending,omitempty" yaml:"pending,omitempty"`

	TotalLines int `json:"total_lines" yaml:"total_lines"`
	EventLines int `json:"event_lines" yaml:"event_lines"`
	Superseded int `json:"superseded" yaml:"superseded"`

	// Anomalies counts fields replaced by placeholders and overlong lines
	// skipped.
	Anomalies int `json:"anomalies" yaml:"anomalies"`

	FilePath string    `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	ParsedAt time.Time `json:"parsed_at" yaml:"parsed_at"`
}

// Parse reads the whole log from r. Lines longer than maxLineSize are skipped.
// On a read error the result still holds every run closed before the failure.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	if p.Schema == Undetected {
		return nil, ErrUndetectedSchema
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &ParseResult{}
	tracker := jobs.NewTracker()
	tracker.OnSupersede = func(name string, previous, next time.Time) {
		result.Superseded++
		logger.Debug("superseding in-flight task",
			zap.String("task", name),
			zap.Time("previous_start", previous),
			zap.Time("start", next),
		)
	}

	var readErr error
	lines := newLineReader(r)
	lineNum := 0
	for {
		line, overlong, err := lines.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read line %d: %w", lineNum+1, err)
			break
		}
		lineNum++
		result.TotalLines = lineNum
		if overlong {
			result.Anomalies++
			logger.Debug("overlong line skipped", zap.Int("line", lineNum), zap.Int("limit", maxLineSize))
			continue
		}
		p.processLine(line, lineNum, tracker, result, logger)
	}

	result.Ledger = tracker.Ledger()
	result.Pending = tracker.Pending()
	result.ParsedAt = time.Now()

	logger.Debug("scan complete",
		zap.Int("lines", result.TotalLines),
		zap.Int("event_lines", result.EventLines),
		zap.Int("finished", len(result.Ledger)),
		zap.Int("pending", len(result.Pending)),
	)

	if readErr != nil {
		return result, readErr
	}
	return result, nil
}

// processLine classifies one line and feeds the tracker.
func (p *Parser) processLine(line string, lineNum int, tracker *jobs.Tracker, result *ParseResult, logger *zap.Logger) {
	ev, anomalies := classify(line, p.Schema)
	if ev.Kind == jobs.EventNone {
		return
	}
	ev.Line = lineNum
	result.EventLines++
	result.Anomalies += len(anomalies)
	for _, err := range anomalies {
		logger.Debug("placeholder substituted", zap.Int("line", lineNum), zap.Error(err))
	}
	logger.Debug("backup event",
		zap.Int("line", lineNum),
		zap.Stringer("kind", ev.Kind),
		zap.String("task", ev.Name),
		zap.Time("time", ev.Time),
	)
	tracker.Observe(ev)
}

// ParseFile parses the log at path.
func (p *Parser) ParseFile(path string) (result *ParseResult, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	result, err = p.Parse(f)
	if result != nil {
		result.FilePath = path
	}
	return result, err
}
