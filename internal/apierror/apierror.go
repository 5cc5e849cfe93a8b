// Package apierror provides the error envelopes written to clients. Handlers
// never put upstream bodies or stack traces in them.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Redirect tells the browser surface where to navigate, e.g. back to /login.
type APIError struct {
	Detail   string `json:"detail"`
	Redirect string `json:"redirect,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewRedirect(msg, to string) *APIError {
	return &APIError{Detail: msg, Redirect: to}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}
