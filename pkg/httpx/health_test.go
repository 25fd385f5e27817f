package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemcatalog/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "no dependencies",
			checks:     httpx.HealthChecks{},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{},
		},
		{
			name:       "all healthy",
			checks:     httpx.HealthChecks{"database": &stubChecker{}, "event_bus": &stubChecker{}},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"database": "ok", "event_bus": "ok"},
		},
		{
			name:       "database down",
			checks:     httpx.HealthChecks{"database": &stubChecker{err: down}, "event_bus": &stubChecker{}},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"database": "unreachable", "event_bus": "ok"},
		},
		{
			name:       "redis down",
			checks:     httpx.HealthChecks{"redis": &stubChecker{err: down}},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"redis": "unreachable"},
		},
		{
			name:       "nil checker skipped",
			checks:     httpx.HealthChecks{"redis": nil, "database": &stubChecker{}},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"database": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httpx.HealthHandler(tt.checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type: got %q", ct)
			}
			body := decode(t, rr)
			wantOK := tt.wantStatus == http.StatusOK
			if body["success"] != wantOK {
				t.Errorf("success = %v, want %v", body["success"], wantOK)
			}
			if _, ok := body["timestamp"].(string); !ok {
				t.Error("expected timestamp")
			}
			checks, _ := body["checks"].(map[string]any)
			if len(checks) != len(tt.wantChecks) {
				t.Fatalf("checks = %v, want %v", checks, tt.wantChecks)
			}
			for k, v := range tt.wantChecks {
				if checks[k] != v {
					t.Errorf("checks[%s] = %v, want %s", k, checks[k], v)
				}
			}
		})
	}
}
