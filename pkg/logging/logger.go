// Package logging sets up the service's structured slog sinks and a
// throttled-INFO logger used across the pipeline.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aurel42/zonepoi/pkg/config"
)

// RequestLogger is the logger instance for per-provider HTTP request logs.
var RequestLogger *slog.Logger

// Init initializes the logging system based on configuration, rotating any
// existing log files to ".old" first. It returns a cleanup function closing
// the opened log files.
func Init(cfg *config.LogConfig) (func(), error) {
	rotatePaths(cfg.Server.Path, cfg.Requests.Path)

	var closers []io.Closer

	serverHandler, file1, err := setupHandler(cfg.Server.Path, cfg.Server.Level, true)
	if err != nil {
		return nil, fmt.Errorf("failed to setup server logger: %w", err)
	}
	if file1 != nil {
		closers = append(closers, file1)
	}
	slog.SetDefault(slog.New(serverHandler))

	requestHandler, file2, err := setupHandler(cfg.Requests.Path, cfg.Requests.Level, false)
	if err != nil {
		if file1 != nil {
			file1.Close()
		}
		return nil, fmt.Errorf("failed to setup requests logger: %w", err)
	}
	if file2 != nil {
		closers = append(closers, file2)
	}
	RequestLogger = slog.New(requestHandler)

	return func() {
		for _, c := range closers {
			c.Close()
		}
	}, nil
}

func setupHandler(path, levelStr string, stdout bool) (handler slog.Handler, file *os.File, err error) {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	fileHandler := slog.NewTextHandler(file, opts)

	if !stdout {
		return fileHandler, file, nil
	}

	consoleOpts := &slog.HandlerOptions{Level: maxLevel(level, slog.LevelInfo)}
	consoleHandler := slog.NewTextHandler(os.Stdout, consoleOpts)

	return &multiHandler{handlers: []slog.Handler{fileHandler, consoleHandler}}, file, nil
}

func maxLevel(a, b slog.Level) slog.Level {
	if a > b {
		return a
	}
	return b
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler.
// nolint:gocritic // r must be passed by value to implement slog.Handler
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// rotatePaths rotates the given log files if they exist by renaming them to
// ".old"; this keeps one prior run's logs around without letting the file
// grow unbounded across restarts.
func rotatePaths(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			oldPath := p + ".old"
			_ = os.Remove(oldPath)
			_ = os.Rename(p, oldPath)
		}
	}
}

// ThrottledLogger wraps a *slog.Logger so that repeated INFO messages with
// the same key are dropped if seen again inside window; WARN/ERROR messages
// are never throttled. Grounded on the original Python SemanticLogger's
// message-throttle dict, re-expressed as a Go type instead of module-level
// state.
type ThrottledLogger struct {
	base   *slog.Logger
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewThrottledLogger wraps base with a throttle window for repeated INFO
// messages.
func NewThrottledLogger(base *slog.Logger, window time.Duration) *ThrottledLogger {
	return &ThrottledLogger{base: base, window: window, seen: make(map[string]time.Time)}
}

// Info logs msg at INFO level unless an identical key was logged less than
// window ago.
func (t *ThrottledLogger) Info(key, msg string, args ...any) {
	t.mu.Lock()
	last, ok := t.seen[key]
	now := time.Now()
	if ok && now.Sub(last) < t.window {
		t.mu.Unlock()
		return
	}
	t.seen[key] = now
	t.mu.Unlock()
	t.base.Info(msg, args...)
}

// Warn always logs, never throttled.
func (t *ThrottledLogger) Warn(msg string, args ...any) { t.base.Warn(msg, args...) }

// Error always logs, never throttled.
func (t *ThrottledLogger) Error(msg string, args ...any) { t.base.Error(msg, args...) }
