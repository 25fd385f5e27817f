package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", last, err)
	}
	return m
}

func TestInfoContext_WithSpan(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	ctx, span := otel.Tracer("test").Start(context.Background(), "my-span")
	defer span.End()

	log.InfoContext(ctx, "hello")

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; !ok {
		t.Error("expected trace_id")
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id")
	}
}

func TestInfoContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.InfoContext(context.Background(), "no span")

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id should not be present without an active span")
	}
}

func TestErrorContext_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("component", "items")

	log.ErrorContext(context.Background(), "write failed", "error", errors.New("boom"), "item_id", int64(12))

	entry := parseLastLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", entry["error"])
	}
	if entry["item_id"] != float64(12) {
		t.Errorf("expected item_id=12, got %v", entry["item_id"])
	}
	if entry["component"] != "items" {
		t.Errorf("expected bound component attr, got %v", entry["component"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Info("dropped")
	log.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info and debug must be filtered at warn level: %s", buf.String())
	}
	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatal("warn must be written at warn level")
	}
}

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, "debug")

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(Middleware(log))
			r.Get("/items", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})

			req := httptest.NewRequest(http.MethodGet, "/items", http.NoBody)
			req.Header.Set("User-Agent", "test-agent")
			r.ServeHTTP(httptest.NewRecorder(), req)

			entry := parseLastLine(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v", entry["status"])
			}
			if entry["bytes"] != float64(4) {
				t.Errorf("bytes = %v, want 4", entry["bytes"])
			}
			if entry["user_agent"] != "test-agent" {
				t.Errorf("user_agent = %v", entry["user_agent"])
			}
			if _, ok := entry["request_id"]; !ok {
				t.Error("expected request_id in request log")
			}
		})
	}
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info")

		h := Recovery(log, verbose)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if body["success"] != false || body["statusCode"] != float64(500) {
			t.Fatalf("unexpected envelope %v", body)
		}
		_, hasStack := body["stack"]
		if hasStack != verbose {
			t.Errorf("verbose=%v: stack present=%v", verbose, hasStack)
		}
		if verbose && body["message"] != "kaboom" {
			t.Errorf("verbose message = %v", body["message"])
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Error("panic must be logged")
		}
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("nothing happens")
	if log.ToSlog().Enabled(context.Background(), 8) {
		t.Fatal("nop logger must not be enabled for error level")
	}
}
