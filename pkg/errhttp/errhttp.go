// Package errhttp maps domain and validation errors to the HTTP error envelope.
// Add a case to classify for each new domain sentinel error.
package errhttp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/ghuser/itemcatalog/pkg/httpx"
	"github.com/ghuser/itemcatalog/pkg/logger"
	pkgvalidator "github.com/ghuser/itemcatalog/pkg/validator"
	itemdomain "github.com/ghuser/itemcatalog/services/item/domain"
)

const genericMessage = "Something went wrong on the server"

// Writer renders errors as envelopes. 5xx errors are logged with request
// context and captured to the request's Sentry hub.
type Writer struct {
	log logger.Logger
	// verbose exposes err.Error() of 5xx errors to clients (development only).
	verbose bool
}

// New returns a Writer. Set verbose only in development.
func New(log logger.Logger, verbose bool) *Writer {
	return &Writer{log: log, verbose: verbose}
}

// Write maps err to a status code and writes the error envelope.
// Uses errors.Is/As so wrapped errors are matched correctly.
func (ew *Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	env := classify(err)

	if env.StatusCode >= http.StatusInternalServerError {
		ew.log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"status", env.StatusCode,
			"method", r.Method,
			"path", r.URL.Path,
		)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		if ew.verbose {
			env.Message = err.Error()
		}
	}

	httpx.JSON(w, env.StatusCode, env)
}

// Status returns the HTTP status err maps to.
func Status(err error) int {
	return classify(err).StatusCode
}

func classify(err error) httpx.Envelope {
	var (
		validationErr *pkgvalidator.ValidationError
		maxBytesErr   *http.MaxBytesError
		notFoundErr   *itemdomain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		env := envelope(http.StatusBadRequest, "Validation Error", validationErr.Message)
		env.Details = validationErr.Details
		return env
	case errors.Is(err, pkgvalidator.ErrMalformedJSON):
		return envelope(http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
	case errors.As(err, &maxBytesErr):
		return envelope(http.StatusRequestEntityTooLarge, "Payload Too Large",
			fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit))
	case errors.As(err, &notFoundErr):
		return envelope(http.StatusNotFound, "Not Found", fmt.Sprintf("Item with ID %d not found", notFoundErr.ID))
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return envelope(http.StatusNotFound, "Not Found", "Item not found")
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return envelope(http.StatusConflict, "Conflict", "Item with this name already exists")
	case errors.Is(err, itemdomain.ErrItemReferenced):
		return envelope(http.StatusConflict, "Conflict", "Cannot delete item because it is referenced by other records")
	case errors.Is(err, itemdomain.ErrRequiredField):
		return envelope(http.StatusBadRequest, "Bad Request", "Required field is missing")
	case errors.Is(err, itemdomain.ErrValueOutOfRange):
		return envelope(http.StatusBadRequest, "Bad Request", "Numeric value out of range")
	case errors.Is(err, itemdomain.ErrInvalidItem):
		return envelope(http.StatusBadRequest, "Bad Request", "Invalid input data")
	case errors.Is(err, itemdomain.ErrStoreUnavailable):
		return envelope(http.StatusServiceUnavailable, "Service Unavailable", "Database connection failed")
	default:
		return envelope(http.StatusInternalServerError, "Internal Server Error", genericMessage)
	}
}

func envelope(status int, title, message string) httpx.Envelope {
	return httpx.Envelope{
		Success:    false,
		Error:      title,
		Message:    message,
		StatusCode: status,
	}
}
