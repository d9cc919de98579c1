package coordinator

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const logTailSize = 200

// Logger writes timestamped session log lines to a file and keeps an
// in-memory tail for the board. Safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	tail []string
}

// NewLogger creates a logger writing to the given path, creating parent
// directories as needed. An empty path yields a tail-only logger.
func NewLogger(logPath string) (*Logger, error) {
	if logPath == "" {
		return &Logger{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := &Logger{file: f}
	l.Log("coordinator", "session log started at %s", time.Now().Format(time.RFC3339))
	return l, nil
}

// NopLogger returns a logger that records only the in-memory tail.
func NopLogger() *Logger {
	return &Logger{}
}

// Log writes one [component] line.
func (l *Logger) Log(component, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] [%s] %s", time.Now().Format("15:04:05.000"), component, msg)

	l.tail = append(l.tail, line)
	if len(l.tail) > logTailSize {
		l.tail = l.tail[len(l.tail)-logTailSize:]
	}
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

// Tail returns a copy of the most recent log lines.
func (l *Logger) Tail() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.tail))
	copy(out, l.tail)
	return out
}

// Close closes the log file. Safe on a tail-only logger.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
