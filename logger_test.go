package tiles3d

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	root, a, b, c := testTree()
	markAllReady(root, a, b, c)
	ts := NewTileset(root, WithGeometricError(1000))
	ts.SelectTiles(testFrameState(10))

	if !strings.Contains(buf.String(), "tile selection") {
		t.Error("debug logging produced no traversal diagnostics")
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() = nil, want nop logger")
	}
	if Logger().Enabled(nil, slog.LevelError) {
		t.Error("nop logger reports enabled")
	}
}
