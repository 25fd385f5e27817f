package httpx

import (
	"fmt"
	"net/http"
)

type indexResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// IndexHandler answers GET / with a welcome message and an endpoint index.
func IndexHandler(version string, endpoints map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, indexResponse{
			Success:   true,
			Message:   "Welcome to REST API",
			Version:   version,
			Endpoints: endpoints,
		})
	}
}

// NotFound is the router fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusNotFound, "Not Found",
		fmt.Sprintf("Route %s %s not found", r.Method, r.URL.RequestURI()))
}

// MethodNotAllowed is the router fallback for a known route hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path))
}
