// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Logger is the key-value logging surface used across the codebase.
type Logger interface {
	// With returns a new Logger that has this logger's context plus the given context.
	With(ctx ...any) Logger

	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) With(ctx ...any) Logger {
	return &derivedLogger{append([]any{}, ctx...)}
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

// derivedLogger carries key-value context and resolves the root handler on
// every call. Package-level loggers are derived at init, before SetDefault
// runs, so the handler must not be pinned at derive time.
type derivedLogger struct {
	ctx []any
}

func (l *derivedLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &derivedLogger{merged}
}

func (l *derivedLogger) write(level slog.Level, msg string, ctx []any) {
	inner := root.Load().inner
	if !inner.Enabled(context.Background(), level) {
		return
	}
	args := make([]any, 0, len(l.ctx)+len(ctx))
	args = append(args, l.ctx...)
	args = append(args, ctx...)
	inner.Log(context.Background(), level, msg, args...)
}

func (l *derivedLogger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx) }
func (l *derivedLogger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx) }
func (l *derivedLogger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx) }
func (l *derivedLogger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx) }

var root atomic.Pointer[logger]

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global handler.
func SetDefault(handler slog.Handler) {
	root.Store(&logger{slog.New(handler)})
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger carrying the given context, e.g. a "pkg" tag.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// Debug logs at debug level with the root logger.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info logs at info level with the root logger.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn logs at warn level with the root logger.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error logs at error level with the root logger.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }

// FromVerbosity converts the numeric verbosity flag (1=error, 2=warn,
// 3=info, 4+=debug) into a slog level.
func FromVerbosity(v int) slog.Level {
	switch {
	case v <= 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// discardHandler drops every record.
type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (h *discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (h *discardHandler) WithGroup(string) slog.Handler { return h }

func (h *discardHandler) WithAttrs([]slog.Attr) slog.Handler { return &discardHandler{} }
