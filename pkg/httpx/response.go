package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON wrapper every endpoint responds with.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Stack      string `json:"stack,omitempty"`
} // @name Envelope

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// silently discarded; use this for handler responses, not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes a successful envelope carrying data and message.
func Success(w http.ResponseWriter, status int, data any, message string) {
	JSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// Fail writes an error envelope. title is the short error class
// ("Not Found", "Conflict"); message is the human-readable explanation.
func Fail(w http.ResponseWriter, status int, title, message string) {
	JSON(w, status, Envelope{
		Success:    false,
		Error:      title,
		Message:    message,
		StatusCode: status,
	})
}

// Count returns a pointer to n for Envelope.Count, which must render even when zero.
func Count(n int) *int { return &n }
