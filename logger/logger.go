package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped lines to a per-run log file, optionally echoing
// to a second writer (the CLI points it at stderr).
type Logger struct {
	file *os.File
	echo io.Writer
	mu   sync.Mutex
}

// NewLogger creates a new Logger instance. Until Init succeeds, messages go
// only to the echo writer, if any.
func NewLogger() *Logger {
	return &Logger{}
}

// SetEcho duplicates every message to w. Pass nil to disable.
func (l *Logger) SetEcho(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = w
}

// Init opens a log file in logDir named deckmerge_<date>_<run>.log, where
// run counts prior logs from the same day.
func (l *Logger) Init(logDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
	}

	dateStr := time.Now().Format("2006-01-02")
	pattern := filepath.Join(logDir, fmt.Sprintf("deckmerge_%s_*.log", dateStr))
	matches, _ := filepath.Glob(pattern)
	runCount := len(matches) + 1
	filename := filepath.Join(logDir, fmt.Sprintf("deckmerge_%s_%d.log", dateStr, runCount))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	l.file = f
	l.logInternal("Run started")
	return nil
}

// Log writes a message.
func (l *Logger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(message)
}

// Logf writes a formatted message.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logInternal(fmt.Sprintf(format, args...))
}

func (l *Logger) logInternal(message string) {
	timestamp := time.Now().Format("15:04:05.000")
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %s\n", timestamp, message)
	}
	if l.echo != nil {
		fmt.Fprintf(l.echo, "%s\n", message)
	}
}

// Close closes the log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.logInternal("Run finished")
		l.file.Close()
		l.file = nil
	}
}
