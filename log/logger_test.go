// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedLoggerFollowsSetDefault(t *testing.T) {
	// derived before any handler is configured, like package-level loggers
	derived := WithContext("pkg", "demo")

	var buf bytes.Buffer
	SetDefault(NewTerminalHandler(&buf, slog.LevelDebug, false))
	defer SetDefault(DiscardHandler())

	derived.Info("operation committed", "id", 7)

	out := buf.String()
	assert.Contains(t, out, "operation committed")
	assert.Contains(t, out, "pkg=demo")
	assert.Contains(t, out, "id=7")

	buf.Reset()
	SetDefault(NewTerminalHandler(&buf, slog.LevelInfo, false))
	derived.Debug("below threshold")
	assert.Empty(t, buf.String())
}

func TestDerivedLoggerWithMergesContext(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewTerminalHandler(&buf, slog.LevelDebug, false))
	defer SetDefault(DiscardHandler())

	child := WithContext("pkg", "demo").With("op", "mint")
	child.Debug("entered")

	out := buf.String()
	assert.Contains(t, out, "pkg=demo")
	assert.Contains(t, out, "op=mint")
}

func TestFromVerbosity(t *testing.T) {
	assert.Equal(t, slog.LevelError, FromVerbosity(1))
	assert.Equal(t, slog.LevelWarn, FromVerbosity(2))
	assert.Equal(t, slog.LevelInfo, FromVerbosity(3))
	assert.Equal(t, slog.LevelDebug, FromVerbosity(4))
}
