package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsRequestContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelDebug, "text")

	ctx := WithRequestMetadata(context.Background(), "req-1", "/catalog")
	ctx = WithLayer(ctx, "parks")
	log.InfoContext(ctx, "listing")

	out := buf.String()
	for _, want := range []string{"request_id=req-1", "route=/catalog", "layer=parks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line, got %q", want, out)
		}
	}
	if strings.Contains(out, "trace_id") {
		t.Fatalf("expected no trace fields without an active span, got %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "JSON").Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected json log line, got %q", buf.String())
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelWarn, "text").Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestWithLayerIgnoresBlank(t *testing.T) {
	t.Parallel()

	if _, ok := LayerFromContext(WithLayer(context.Background(), "  ")); ok {
		t.Fatal("expected blank layer to be ignored")
	}
}
