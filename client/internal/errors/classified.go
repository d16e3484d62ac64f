// Package errors classifies transport failures so the command queue knows
// which ones are worth retrying.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCategory decides retry behaviour.
type ErrorCategory int

const (
	// Recoverable failures are retried with backoff: 5xx, 408, 429 and
	// network errors.
	Recoverable ErrorCategory = iota
	// Irrecoverable failures are returned at once: every other 4xx.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError is a failed API call with its retry category.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // 0 for network errors
	Body       string // response body, possibly truncated
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// CategoryFor maps an HTTP status to its category.
func CategoryFor(statusCode int) ErrorCategory {
	if statusCode >= 400 && statusCode < 500 {
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return Recoverable
		default:
			return Irrecoverable
		}
	}
	return Recoverable
}

// ClassifyHTTPError wraps underlying with the category of statusCode.
func ClassifyHTTPError(statusCode int, body string, underlying error) *ClassifiedError {
	return &ClassifiedError{
		Category:   CategoryFor(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlying,
	}
}

// NewHTTPError reports an unexpected status for operation.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	return ClassifyHTTPError(statusCode, body, fmt.Errorf("%s: status %d", operation, statusCode))
}

// NewNetworkError reports a transport failure. These are always recoverable.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s: %w", operation, err),
	}
}

// IsIrrecoverable reports whether err carries an Irrecoverable classification.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	return stderrors.As(err, &ce) && ce.Category == Irrecoverable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }
