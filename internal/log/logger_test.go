package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentActivity, Output: &buf})
	fields := NewFields().WithOperation(OpCreate).WithError(errors.New("boom"), ErrorTypeDatabase)
	l.Info("activity saved", fields.ToSlice()...)

	out := buf.String()
	for _, want := range []string{"component=activity", "operation=create", "error=boom", "error_type=database_error"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestMiddlewareInjectsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})
	h := Middleware(base, func(*http.Request) string { return "req-1" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("missing request id: %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Fatalf("got %q", l.Component())
	}
}
