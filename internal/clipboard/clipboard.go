// Package clipboard copies message text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/tgterm/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool
	writer      = writeSystem
)

// Init initializes the system clipboard. Safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := clipboard.Init(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

func writeSystem(text string) error {
	if err := initLocked(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := writer(text); err != nil {
		return err
	}
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}

// SetWriter replaces the clipboard backend. Tests use it to avoid touching
// the real clipboard.
func SetWriter(fn func(text string) error) {
	mu.Lock()
	defer mu.Unlock()
	writer = fn
}

// ResetWriter restores the system clipboard backend.
func ResetWriter() {
	mu.Lock()
	defer mu.Unlock()
	writer = writeSystem
}
