// Package errors provides the upstream error taxonomy for curatorx.
// It extends the standard errors package with typed upstream failures and wrapping helpers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for upstream failure scenarios
var (
	// ErrUpstreamNotFound indicates the native API answered 404
	ErrUpstreamNotFound = errors.New("upstream resource not found")

	// ErrUpstreamAuthFailed indicates the native API rejected our credentials (401/403)
	ErrUpstreamAuthFailed = errors.New("upstream authentication failed")

	// ErrUpstreamUnavailable indicates a 429/5xx answer or an open circuit
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamFetchFailed indicates retries were exhausted for a single item
	ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

	// ErrResolutionFailed indicates a linked-data image identifier could not be located
	ErrResolutionFailed = errors.New("linked-data resolution failed")

	// ErrAllSourcesFailed indicates every source of an aggregated search failed
	ErrAllSourcesFailed = errors.New("all sources failed")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrUnknownSource indicates a source tag that no client serves
	ErrUnknownSource = errors.New("unknown source")

	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")
)

// StatusError is a non-2xx upstream answer.
type StatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Unwrap maps the status code onto the taxonomy
func (e *StatusError) Unwrap() error {
	return KindForStatus(e.StatusCode)
}

// KindForStatus returns the sentinel implied by an HTTP status code, or nil for
// statuses outside the taxonomy (other 4xx).
func KindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrUpstreamNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUpstreamAuthFailed
	case status == http.StatusTooManyRequests, status >= 500:
		return ErrUpstreamUnavailable
	default:
		return nil
	}
}

// FetchFailedError reports a single item whose retries were exhausted.
type FetchFailedError struct {
	NativeID string
	Attempts int
	Last     error
}

// Error implements the error interface
func (e *FetchFailedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.NativeID, e.Attempts, e.Last)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts", e.NativeID, e.Attempts)
}

// Unwrap exposes both the taxonomy sentinel and the last cause
func (e *FetchFailedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrUpstreamFetchFailed}
	}
	return []error{ErrUpstreamFetchFailed, e.Last}
}

// AggregationError reports the per-source failures of an aggregated search
// in which no source succeeded.
type AggregationError struct {
	Failures map[string]error
}

// Error implements the error interface
func (e *AggregationError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return fmt.Sprintf("%v (%s)", ErrAllSourcesFailed, strings.Join(parts, "; "))
}

// Unwrap returns the sentinel
func (e *AggregationError) Unwrap() error {
	return ErrAllSourcesFailed
}

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
//
// Example:
//
//	if err != nil {
//	    return errors.Wrapf(err, "fetch object %s", id)
//	}
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsNotFound reports whether the error is an upstream not found error
func IsNotFound(err error) bool {
	return Is(err, ErrUpstreamNotFound)
}

// IsAuthFailed reports whether the error is an upstream auth error
func IsAuthFailed(err error) bool {
	return Is(err, ErrUpstreamAuthFailed)
}

// IsUnavailable reports whether the error is an upstream availability error
func IsUnavailable(err error) bool {
	return Is(err, ErrUpstreamUnavailable)
}

// IsRetryable reports whether the error is worth another attempt: 429/5xx answers,
// transport failures and timeouts. Not-found and auth errors are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsNotFound(err) || IsAuthFailed(err) || Is(err, ErrInvalidInput) || Is(err, ErrInvalidResponse) {
		return false
	}
	var se *StatusError
	if As(err, &se) {
		return KindForStatus(se.StatusCode) == ErrUpstreamUnavailable
	}
	return true
}

// IsRateLimited reports whether the error comes from a 429 answer
func IsRateLimited(err error) bool {
	var se *StatusError
	return As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}
