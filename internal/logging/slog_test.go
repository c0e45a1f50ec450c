package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextLogger_LevelsAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		require.Contains(t, out, want)
	}
}

func TestTextLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo)

	log.Debug(context.Background(), "hidden")
	require.Empty(t, buf.String())
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo).With("module", "queue")

	log.Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	require.True(t, strings.Contains(out, "module=queue") && strings.Contains(out, "k=v"), out)
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, slog.LevelInfo).Info(context.Background(), "started", "addr", ":8080")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "started", rec["msg"])
	require.Equal(t, ":8080", rec["addr"])
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() {
		l := OrNop(nil)
		l.Info(context.TODO(), "x")
		l.With("a", 1).Error(context.TODO(), "y")
	})
}
