package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, redisdb.Client, EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the dependencies to probe in the health endpoint.
// Nil entries are skipped, so a process only lists what it actually opened.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	Success   bool              `json:"success"`
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports degraded status if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Success:   true,
			Status:    "ok",
			Message:   "Server is running",
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]string, len(checks)),
		}

		for name, c := range checks {
			if c == nil {
				continue
			}
			if err := c.Ping(ctx); err != nil {
				resp.Checks[name] = "unreachable"
				resp.Success = false
				resp.Status = "degraded"
				resp.Message = "One or more dependencies are unreachable"
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if !resp.Success {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
