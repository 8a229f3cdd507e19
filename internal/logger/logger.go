// Package logger is the diagnostic log channel. The terminal belongs to the
// TUI while it runs, so everything goes to a file.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath is where logs go when Init was never called
const DefaultLogPath = "/tmp/tgterm-debug.log"

var (
	mu           sync.Mutex
	slogLogger   *slog.Logger
	levelVar     = new(slog.LevelVar)
	logFile      *os.File
	logPath      string
	initDone     bool
	currentLevel = LevelInfo
)

// SetLevel sets the minimum log level to output
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	levelVar.Set(level.toSlogLevel())
}

// SetDebug toggles between debug and info level
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// Init opens path for appending and routes all logging there. Calling it
// again after a successful Init is a no-op until Reset.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return openLocked(path)
}

func openLocked(path string) error {
	if initDone {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	levelVar.Set(currentLevel.toSlogLevel())
	slogLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true
	slogLogger.Info("logger initialized", "path", path)
	return nil
}

// ensureInit must be called with mu held.
func ensureInit() {
	if initDone {
		return
	}
	if err := openLocked(DefaultLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func logWithLevel(level slog.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if slogLogger == nil || !slogLogger.Enabled(context.Background(), level) {
		return
	}
	slogLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug writes a printf-style debug message
func Debug(format string, args ...any) {
	logWithLevel(slog.LevelDebug, format, args...)
}

// Info writes a printf-style info message
func Info(format string, args ...any) {
	logWithLevel(slog.LevelInfo, format, args...)
}

// Warn writes a printf-style warning
func Warn(format string, args ...any) {
	logWithLevel(slog.LevelWarn, format, args...)
}

// Error writes a printf-style error
func Error(format string, args ...any) {
	logWithLevel(slog.LevelError, format, args...)
}

// Path returns the file currently being written, or "" before first use.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// Reset returns the package to its pristine state. Tests use it to point
// the logger at a temp file.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	logPath = ""
	slogLogger = nil
	currentLevel = LevelInfo
	levelVar = new(slog.LevelVar)
}

// WithComponent returns a structured logger tagged with a component name.
//
//	log := logger.WithComponent("ingest")
//	log.Warn("unknown chat", "chatID", id)
func WithComponent(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithChat returns a structured logger tagged with a conversation id.
func WithChat(chatID int64) *slog.Logger {
	return with(slog.Int64("chatID", chatID))
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if slogLogger == nil {
		return slog.Default().With(attr)
	}
	return slogLogger.With(attr)
}
