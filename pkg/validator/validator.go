package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Numeric tags (gt, lte, ...) compare decimals as float64.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
}

// ErrMalformedJSON is returned when a request body is not parseable JSON.
var ErrMalformedJSON = errors.New("malformed JSON body")

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field" example:"price"`
	Message string `json:"message" example:"Price must be a positive number"`
} // @name FieldError

// ValidationError carries every violated constraint of one input, in the
// order they were found.
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// NewValidationError builds a ValidationError from details.
func NewValidationError(message string, details ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// Messages overrides the default text for a violated tag. Keys are
// "field.tag" or a bare "field" that applies to every tag on that field.
type Messages map[string]string

func (m Messages) lookup(field, tag string) (string, bool) {
	if msg, ok := m[field+"."+tag]; ok {
		return msg, true
	}
	msg, ok := m[field]
	return msg, ok
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into field
// errors, preferring msgs over the default wording. Struct field order is kept.
func FormatValidationErrors(err error, msgs Messages) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		msg, ok := msgs.lookup(e.Field(), e.Tag())
		if !ok {
			msg = formatFieldError(e)
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}

func formatFieldError(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if isString {
			if e.Param() == "1" {
				return "Must not be empty"
			}
			return fmt.Sprintf("Minimum length is %s", e.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Maximum length is %s", e.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of [%s]", strings.Join(strings.Fields(e.Param()), ", "))
	case "numeric":
		return "Must be a numeric value"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// Decode unmarshals a JSON body into T. An empty body decodes as the zero
// value; syntax errors wrap ErrMalformedJSON.
func Decode[T any](body []byte) (T, error) {
	var v T
	if len(bytes.TrimSpace(body)) == 0 {
		return v, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return v, err
		}
		return v, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	if dec.More() {
		return v, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedJSON)
	}
	return v, nil
}
