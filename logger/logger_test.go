package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
// Returns the path to the temp file and a cleanup function.
func setupTestLogger(t *testing.T) (string, func()) {
	t.Helper()
	Reset()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test-forge.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}

	return logPath, func() {
		Reset()
	}
}

func TestGet(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	log := Get()
	if log == nil {
		t.Fatal("Get() returned nil")
	}

	// Should not panic
	log.Info("test message")
	log.Debug("debug message", "key", "value")
	log.Warn("warning", "count", 42)
	log.Error("error occurred", "err", "something failed")
}

func TestGet_StructuredLogging(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := Get()
	log.Info("command applied", "name", "compile", "queued", 3)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "command applied") {
		t.Error("Should contain message")
	}
	if !strings.Contains(contentStr, "name=compile") {
		t.Error("Should contain name=compile")
	}
	if !strings.Contains(contentStr, "queued=3") {
		t.Error("Should contain queued=3")
	}
}

func TestWithComponent(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	WithComponent("driver").Info("step complete")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "component=driver") {
		t.Error("Should contain component=driver")
	}
}

func TestClearGlobal(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	Get().Info("before-clear-marker")
	if err := ClearGlobal(); err != nil {
		t.Fatalf("ClearGlobal: %v", err)
	}
	Get().Info("after-clear-marker")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "before-clear-marker") {
		t.Error("cleared log should not contain earlier entries")
	}
	if !strings.Contains(string(content), "after-clear-marker") {
		t.Error("cleared log should still accept new entries")
	}
}

func TestKeepLast(t *testing.T) {
	Reset()
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "forge.log")

	// Simulate a previous run's segment already on disk.
	if err := os.WriteFile(logPath, []byte("old-segment-marker\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	defer Reset()

	Get().Info("current-segment-marker")
	if err := KeepLast(); err != nil {
		t.Fatalf("KeepLast: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "old-segment-marker") {
		t.Error("KeepLast should discard earlier segments")
	}
	if !strings.Contains(string(content), "current-segment-marker") {
		t.Error("KeepLast should retain the current segment")
	}

	// Later entries still append after the retained segment.
	Get().Info("post-keep-marker")
	content, err = os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "post-keep-marker") {
		t.Error("log should still accept entries after KeepLast")
	}
}

func TestClose(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	// Close should not panic
	Close()
}

func TestSetDebug(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	SetDebug(false)
	Get().Debug("hidden-debug-marker")

	SetDebug(true)
	Get().Debug("visible-debug-marker")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden-debug-marker") {
		t.Error("debug entry should be suppressed at info level")
	}
	if !strings.Contains(string(content), "visible-debug-marker") {
		t.Error("debug entry should appear once debug is enabled")
	}
}
