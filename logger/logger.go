// Package logger provides the file-backed structured logger for Forge.
//
// The global log accumulates output across runs; each process run appends a
// new segment. The driver loop applies the session's log-retention signals
// through ClearGlobal and KeepLast.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/forge-core/paths"
)

var (
	root         *slog.Logger
	levelVar     = new(slog.LevelVar)
	logFile      *os.File
	mu           sync.Mutex
	logPath      string
	segmentStart int64
	initDone     bool
)

// DefaultLogPath returns the default global log file path.
func DefaultLogPath() (string, error) {
	dir, err := paths.LogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "forge.log"), nil
}

// SetDebug enables or disables debug level logging
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init initializes the logger with a custom path. Must be called before logging.
// If not called, the default path will be used on first log call.
// Returns an error if the log file cannot be opened.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	return initLocked(path)
}

// initLocked opens the log file at path and installs the root logger.
// Caller must hold mu.
func initLocked(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	// The current run's segment begins at the existing end of file.
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file %s: %w", path, err)
	}

	logPath = path
	logFile = f
	segmentStart = info.Size()
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar})
	root = slog.New(handler)
	initDone = true

	root.Info("logger initialized", "path", path)
	return nil
}

// ensureInit initializes the logger with default settings if not already initialized.
// Caller must hold mu.
func ensureInit() {
	if initDone {
		return
	}

	defaultPath, err := DefaultLogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get default log path: %v\n", err)
		return
	}

	if err := initLocked(defaultPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Get returns the root logger instance.
// Use this when you don't have component context.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if root == nil {
		return slog.Default()
	}
	return root
}

// WithComponent returns a logger with the component name attached.
// All log entries from this logger will include component as a structured field.
//
// Example:
//
//	log := logger.WithComponent("driver")
//	log.Info("command dispatched", "name", name)
//	// Output: level=INFO msg="command dispatched" component=driver name=compile
func WithComponent(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()

	if root == nil {
		return slog.Default().With("component", component)
	}
	return root.With("component", component)
}

// ClearGlobal discards all accumulated global log output, including the
// current run's segment. The log file stays open and subsequent entries
// start a fresh segment.
func ClearGlobal() error {
	mu.Lock()
	defer mu.Unlock()

	if !initDone || logFile == nil {
		return nil
	}
	if err := logFile.Truncate(0); err != nil {
		return fmt.Errorf("failed to clear global log %s: %w", logPath, err)
	}
	segmentStart = 0
	return nil
}

// KeepLast retains only the current run's segment of the global log,
// discarding output accumulated by earlier runs.
func KeepLast() error {
	mu.Lock()
	defer mu.Unlock()

	if !initDone || logFile == nil || segmentStart == 0 {
		return nil
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to read global log %s: %w", logPath, err)
	}
	if segmentStart > int64(len(data)) {
		segmentStart = int64(len(data))
	}
	tail := data[segmentStart:]

	if err := logFile.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate global log %s: %w", logPath, err)
	}
	// The file is open O_APPEND, so this write lands at the new end.
	if _, err := logFile.Write(tail); err != nil {
		return fmt.Errorf("failed to rewrite global log %s: %w", logPath, err)
	}
	segmentStart = 0
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = nil
}

// Reset resets the logger state, allowing reinitialization.
// This is primarily for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	logPath = ""
	segmentStart = 0
	root = nil
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes all forge log files from the logs directory.
func ClearLogs() (int, error) {
	count := 0

	defaultPath, err := DefaultLogPath()
	if err != nil {
		return 0, fmt.Errorf("failed to get default log path: %w", err)
	}
	dir := filepath.Dir(defaultPath)

	if err := os.Remove(defaultPath); err == nil {
		count++
	} else if !os.IsNotExist(err) {
		return count, err
	}

	pattern := filepath.Join(dir, "forge-*.log")
	logs, err := filepath.Glob(pattern)
	if err != nil {
		return count, err
	}
	for _, p := range logs {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}

	return count, nil
}
