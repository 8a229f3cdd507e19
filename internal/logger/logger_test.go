package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestLogger points the logger at a temp file and resets it afterwards.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLevels(t *testing.T) {
	logPath := setupTestLogger(t)

	Debug("hidden-debug %d", 1)
	Info("visible-info %s", "ok")
	Warn("visible-warn")
	Error("visible-error")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-debug") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"visible-info ok", "visible-warn", "visible-error"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)

	SetDebug(true)
	Debug("debug-now-visible")
	SetDebug(false)
	Debug("debug-hidden-again")

	content := readLog(t, logPath)
	if !strings.Contains(content, "debug-now-visible") {
		t.Error("debug message should be written when debug is enabled")
	}
	if strings.Contains(content, "debug-hidden-again") {
		t.Error("debug message should be filtered after disabling debug")
	}
}

func TestWithComponentAndChat(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("ingest").Info("component message")
	WithChat(42).Warn("chat message")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=ingest") {
		t.Error("component attribute missing")
	}
	if !strings.Contains(content, "chatID=42") {
		t.Error("chatID attribute missing")
	}
}

func TestPath(t *testing.T) {
	logPath := setupTestLogger(t)
	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}
}

func TestConcurrentLogging(t *testing.T) {
	setupTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Info("concurrent %d-%d", n, j)
			}
		}(i)
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	logPath2 := filepath.Join(tmpDir, "log2.log")

	Reset()
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Info("message to log1")

	Reset()
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Info("message to log2")
	t.Cleanup(Reset)

	content1 := readLog(t, logPath1)
	content2 := readLog(t, logPath2)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 has wrong content: %q", content1)
	}
	if !strings.Contains(content2, "message to log2") || strings.Contains(content2, "message to log1") {
		t.Errorf("log2 has wrong content: %q", content2)
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
