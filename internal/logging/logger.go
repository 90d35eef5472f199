package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives the primary output. Defaults to os.Stderr so stdout
	// stays clean.
	Writer io.Writer
	// FilePath optionally tees JSON records into a log file.
	FilePath string
	// FileLevel is the minimum level for FilePath. Defaults to debug.
	FileLevel string
	// RunID is stamped on every record written to FilePath.
	RunID       string
	Development bool
}

// New constructs a slog logger using the provided options. The returned
// closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	addSource := opts.Development

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "plain"
	}

	var handler slog.Handler
	switch format {
	case "plain":
		handler = newPlainHandler(writer, levelVar)
	case "console":
		handler = newConsoleHandler(writer, levelVar, addSource)
	case "json":
		handler = newJSONHandler(writer, levelVar, addSource)
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	path := strings.TrimSpace(opts.FilePath)
	if path == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	if err := ensureLogDir(path); err != nil {
		return nil, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	fileLevel := new(slog.LevelVar)
	fileLevel.Set(slog.LevelDebug)
	if strings.TrimSpace(opts.FileLevel) != "" {
		fileLevel.Set(parseLevel(opts.FileLevel))
	}
	fileHandler := newJSONHandler(file, fileLevel, true)
	if opts.RunID != "" {
		fileHandler = newRunIDHandler(fileHandler, opts.RunID)
	}

	return slog.New(TeeHandler(handler, fileHandler)), file, nil
}

// ParseLevel reports whether value names a known level.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("unknown log level " + strings.TrimSpace(value))
	}
}

func parseLevel(level string) slog.Level {
	parsed, err := ParseLevel(level)
	if err != nil {
		return slog.LevelInfo
	}
	return parsed
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
