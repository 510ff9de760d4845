// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const timeFormat = "Jan _2 15:04:05"

// TerminalHandler formats records for human readability on a terminal:
//
//	[LEVEL] [TIME] MESSAGE key=value key=value ...
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandler returns a terminal handler writing records at or above
// the given level, with color-coded level tags when useColor is set.
func NewTerminalHandler(wr io.Writer, level slog.Level, useColor bool) *TerminalHandler {
	var lvl slog.LevelVar
	lvl.Set(level)
	return &TerminalHandler{
		wr:       wr,
		lvl:      &lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	b.WriteString(h.levelTag(r.Level))
	b.WriteString(" [")
	b.WriteString(r.Time.Format(timeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	_, err := io.WriteString(h.wr, b.String())
	return err
}

func (h *TerminalHandler) WithGroup(string) slog.Handler {
	panic("not implemented")
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *TerminalHandler) levelTag(level slog.Level) string {
	tag, color := "INFO", "\x1b[32m"
	switch {
	case level >= slog.LevelError:
		tag, color = "EROR", "\x1b[31m"
	case level >= slog.LevelWarn:
		tag, color = "WARN", "\x1b[33m"
	case level < slog.LevelInfo:
		tag, color = "DBUG", "\x1b[36m"
	}
	if h.useColor {
		return fmt.Sprintf("%s[%s]\x1b[0m", color, tag)
	}
	return "[" + tag + "]"
}

func formatValue(v slog.Value) string {
	s := v.String()
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
