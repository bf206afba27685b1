package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := NewLogger(nil, slog.LevelInfo)
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the attached logger back from the context")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatal("expected nil from a bare context")
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Info("session scheduled", "session_id", "session-1")

	output := buf.String()
	if !strings.Contains(output, `"msg":"session scheduled"`) {
		t.Fatalf("expected JSON formatted message, got: %s", output)
	}
	if !strings.Contains(output, `"session_id":"session-1"`) {
		t.Fatalf("expected attribute in output, got: %s", output)
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("suppressed")
	logger.Warn("emitted")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Fatalf("info line should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "emitted") {
		t.Fatalf("warn line missing, got: %s", output)
	}
}
