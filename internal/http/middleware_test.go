package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger_AttachesContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	})

	handler := RequestLogger(base)(next)

	req := httptest.NewRequest(http.MethodGet, "/scheduler/free-slots", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got status %d", rec.Code)
	}
	if !sawLogger {
		t.Fatal("expected a logger in the request context")
	}

	output := buf.String()
	if !strings.Contains(output, "request started") || !strings.Contains(output, "request completed") {
		t.Fatalf("expected start and completion log lines, got: %s", output)
	}
	if !strings.Contains(output, "/scheduler/free-slots") {
		t.Fatalf("expected request path in log output, got: %s", output)
	}
}
