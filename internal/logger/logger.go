// Package logger holds the process-wide structured logger used by memctl and
// the scenario runner.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init enables it.
var L = discard()

var closer io.Closer

const (
	logPrefix     = "memkit-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum level. The zero value is Info.
	JSON    bool       // JSON records instead of key=value text
	Output  io.Writer  // Destination. Takes precedence over LogDir.
	LogDir  string     // Write a dated file here instead of stderr
}

// Init configures L. Call it before the first log call; call Close on exit when
// logging to a file.
func Init(opts Options) error {
	Close()
	if !opts.Enabled {
		L = discard()
		return nil
	}

	out := opts.Output
	if out == nil && opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir, time.Now())
		if err != nil {
			return err
		}
		out, closer = f, f
	}
	if out == nil {
		out = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(out, hopts))
	} else {
		L = slog.New(slog.NewTextHandler(out, hopts))
	}
	return nil
}

// Close releases the log file opened by Init, if any, and reverts L to discard.
func Close() {
	if closer == nil {
		return
	}
	_ = closer.Close()
	closer = nil
	L = discard()
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

func openLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	cleanOldLogs(dir, now)

	name := filepath.Join(dir, logFileName(now))
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func logFileName(t time.Time) string {
	return logPrefix + t.Format(time.DateOnly) + logSuffix
}

// cleanOldLogs removes log files older than retentionDays. Best effort.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// memkit-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
