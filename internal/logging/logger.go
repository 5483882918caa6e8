// Package logging provides the leveled, structured logger shared by the CLI, the viewer and the
// visualizer service.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// LogFileName is the name of the log file written by NewLogger.
const LogFileName = "patchvis.log"

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a case-insensitive level name to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", name)
	}
}

// Logger handles structured logging. A nil *Logger discards everything.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	quiet  bool
	stats  *ErrorStats
	file   *os.File
	logger *slog.Logger
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	mu            sync.Mutex
	TotalErrors   int
	TotalWarnings int
	ByType        map[string]int
	LastError     string
	LastErrorTime time.Time
}

// New returns a logger writing slog text records to w.
func New(level LogLevel, w io.Writer) *Logger {
	return newWithHandler(level, slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// NewConsoleLogger returns a logger that renders records with charmbracelet/log, used for
// --verbose terminal output.
func NewConsoleLogger(w io.Writer, level LogLevel) *Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "patchvis",
	})
	return newWithHandler(level, handler)
}

func newWithHandler(level LogLevel, handler slog.Handler) *Logger {
	return &Logger{
		level:  level,
		stats:  &ErrorStats{ByType: make(map[string]int)},
		logger: slog.New(handler),
	}
}

// NewLogger creates a file logger.
// Tries to write to $TMPDIR/patchvis.log first, then falls back to fallbackDir.
// If both fail, uses stderr and returns an error
func NewLogger(level LogLevel, fallbackDir string) (*Logger, error) {
	logFilePath := filepath.Join(os.TempDir(), LogFileName)
	pathsTried := []string{logFilePath}
	file, err := openLogFile(logFilePath)
	if err != nil && fallbackDir != "" {
		logFilePath = filepath.Join(fallbackDir, LogFileName)
		pathsTried = append(pathsTried, logFilePath)
		file, err = openLogFile(logFilePath)
	}
	if err != nil {
		return New(level, os.Stderr), fmt.Errorf("failed to open log file (tried %s): %w", strings.Join(pathsTried, ", "), err)
	}

	logger := New(level, file)
	logger.file = file
	return logger, nil
}

func openLogFile(path string) (*os.File, error) {
	const logFilePermission = 0o644
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetQuiet enables or disables quiet mode (only errors)
func (l *Logger) SetQuiet(quiet bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = quiet
}

// GetStats returns a copy of the error statistics
func (l *Logger) GetStats() ErrorStats {
	if l == nil {
		return ErrorStats{ByType: map[string]int{}}
	}
	l.stats.mu.Lock()
	defer l.stats.mu.Unlock()

	byType := make(map[string]int, len(l.stats.ByType))
	for k, v := range l.stats.ByType {
		byType[k] = v
	}
	return ErrorStats{
		TotalErrors:   l.stats.TotalErrors,
		TotalWarnings: l.stats.TotalWarnings,
		ByType:        byType,
		LastError:     l.stats.LastError,
		LastErrorTime: l.stats.LastErrorTime,
	}
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, msg string, err error, fields map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.shouldLog(level) {
		return
	}

	l.updateStats(level, msg, err)

	args := make([]any, 0, 2*len(fields)+2)
	if err != nil {
		args = append(args, "error", err)
	}
	for _, key := range sortedFieldKeys(fields) {
		args = append(args, key, fields[key])
	}

	l.logger.Log(context.Background(), toSlogLevel(level), msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(DEBUG, msg, nil, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(INFO, msg, nil, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(WARN, msg, nil, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	l.log(ERROR, msg, err, fields)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.log(DEBUG, fmt.Sprintf(format, args...), nil, nil)
}

func (l *Logger) shouldLog(level LogLevel) bool {
	if level < l.level {
		return false
	}
	if l.quiet && level < ERROR {
		return false
	}
	return true
}

func (l *Logger) updateStats(level LogLevel, msg string, err error) {
	l.stats.mu.Lock()
	defer l.stats.mu.Unlock()

	if level >= ERROR {
		l.stats.TotalErrors++
		if err != nil {
			l.stats.ByType[fmt.Sprintf("%T", err)]++
		}
		l.stats.LastError = msg
		if err != nil {
			l.stats.LastError += ": " + err.Error()
		}
		l.stats.LastErrorTime = time.Now()
		return
	}

	if level == WARN {
		l.stats.TotalWarnings++
	}
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func sortedFieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HasErrors returns true if any errors have been logged
func (l *Logger) HasErrors() bool {
	return l.GetStats().TotalErrors > 0
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
