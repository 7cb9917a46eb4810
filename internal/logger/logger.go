package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file, and to any extra
// writers given
func NewFileLogger(path string, extra ...io.Writer) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(append([]io.Writer{f}, extra...)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// RenderStarted logs the start of a render
func (l *Logger) RenderStarted(id string, chars int, skipBlocks bool) {
	l.Debug("render started",
		"render_id", id,
		"chars", chars,
		"inline_only", skipBlocks)
}

// RenderCompleted logs the completion of a render
func (l *Logger) RenderCompleted(id string, diagnostics int, duration time.Duration) {
	l.Debug("render completed",
		"render_id", id,
		"diagnostics", diagnostics,
		"duration", duration.Round(time.Microsecond))
}

// Diagnostic logs an unhandled or malformed construct
func (l *Logger) Diagnostic(id, kind string, start, end int, message string) {
	l.Warn(message,
		"render_id", id,
		"kind", kind,
		"start", start,
		"end", end)
}

// FileRendered logs a successful file render
func (l *Logger) FileRendered(source, dest string, diagnostics int) {
	l.Info("file rendered",
		"source", source,
		"dest", dest,
		"diagnostics", diagnostics)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a build cache error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// BuildCompleted logs the completion of a directory build
func (l *Logger) BuildCompleted(rendered, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"files_rendered", rendered,
		"files_skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, workers int, disabled []string) {
	l.Debug("config loaded",
		"path", path,
		"workers", workers,
		"disabled", disabled)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}
