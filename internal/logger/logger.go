package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents logging severity.
type Level int

const (
	// LevelDebug includes detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo includes standard operational information.
	LevelInfo
	// LevelWarn includes warnings about potential issues.
	LevelWarn
	// LevelError includes only error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug, nil
	case "info", "INFO", "":
		return LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn, nil
	case "error", "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger provides leveled logging for long-running commands.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	level    Level
	jsonMode bool
}

// Config configures the logger.
type Config struct {
	Level    Level
	FilePath string
	JSONMode bool
}

// New creates a new Logger. When FilePath is empty, log lines go to
// stderr.
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		level:    cfg.Level,
		jsonMode: cfg.JSONMode,
	}

	if cfg.FilePath != "" {
		dir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		l.writer = f
	} else {
		l.writer = os.Stderr
	}

	return l, nil
}

// Close closes the logger.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.writer.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		return f.Close()
	}
	return nil
}

// logEntry represents a JSON log entry.
type logEntry struct {
	Time    string      `json:"time"`
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (l *Logger) log(level Level, msg string, data interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(time.RFC3339)

	var line string
	if l.jsonMode {
		entry := logEntry{
			Time:    timestamp,
			Level:   level.String(),
			Message: msg,
			Data:    data,
		}
		b, err := json.Marshal(entry)
		if err != nil {
			// Fall back to simple format if JSON marshal fails
			line = fmt.Sprintf("%s [%s] %s\n", timestamp, level.String(), msg)
		} else {
			line = string(b) + "\n"
		}
	} else {
		if data != nil {
			line = fmt.Sprintf("%s [%s] %s %v\n", timestamp, level.String(), msg, data)
		} else {
			line = fmt.Sprintf("%s [%s] %s\n", timestamp, level.String(), msg)
		}
	}

	if _, err := l.writer.Write([]byte(line)); err != nil {
		// Log write errors are non-fatal, but we can't do much about them
		_ = err
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, data ...interface{}) {
	var d interface{}
	if len(data) > 0 {
		d = data[0]
	}
	l.log(LevelDebug, msg, d)
}

// Info logs an info message.
func (l *Logger) Info(msg string, data ...interface{}) {
	var d interface{}
	if len(data) > 0 {
		d = data[0]
	}
	l.log(LevelInfo, msg, d)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, data ...interface{}) {
	var d interface{}
	if len(data) > 0 {
		d = data[0]
	}
	l.log(LevelWarn, msg, d)
}

// Error logs an error message.
func (l *Logger) Error(msg string, data ...interface{}) {
	var d interface{}
	if len(data) > 0 {
		d = data[0]
	}
	l.log(LevelError, msg, d)
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	return l.level
}

// SetLevel sets the log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}
