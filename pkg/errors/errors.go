package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the failures a platform API call can produce.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// Error is a typed collection error. Platform names the API the error came
// from; Code carries the HTTP status when one exists.
type Error struct {
	Kind     Kind
	Platform string
	Message  string
	Code     int
}

func (e *Error) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("%s error (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s error (code %d): %s", e.Platform, e.Kind, e.Code, e.Message)
}

// New creates a typed error.
func New(kind Kind, platform string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Platform: platform, Message: fmt.Sprintf(format, args...)}
}

// Auth reports a missing or rejected credential. Fatal for the platform's
// remaining work in a run.
func Auth(platform string, format string, args ...interface{}) *Error {
	return New(KindAuth, platform, format, args...)
}

// NotFound reports an account or resource the platform does not know.
func NotFound(platform string, format string, args ...interface{}) *Error {
	return New(KindNotFound, platform, format, args...)
}

// Transient reports a 5xx, timeout or network failure eligible for retry.
func Transient(platform string, format string, args ...interface{}) *Error {
	return New(KindTransient, platform, format, args...)
}

// RateLimit reports a 429 or quota exhaustion; retried with backoff.
func RateLimit(platform string, format string, args ...interface{}) *Error {
	return New(KindRateLimit, platform, format, args...)
}

// Validation reports a malformed adapter response; the affected record is
// skipped, never fatal.
func Validation(platform string, format string, args ...interface{}) *Error {
	return New(KindValidation, platform, format, args...)
}

// KindOf extracts the Kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindRateLimit:
		return true
	default:
		return false
	}
}

// FromStatusCode maps an HTTP status to a typed error. Code 0 means the
// request never produced a response (network failure).
func FromStatusCode(platform string, code int, detail string) *Error {
	e := &Error{Platform: platform, Code: code, Message: detail}
	switch {
	case code == 0:
		e.Kind = KindTransient
		if detail == "" {
			e.Message = "network error"
		}
	case code == 401 || code == 403:
		e.Kind = KindAuth
		if detail == "" {
			e.Message = "credential rejected"
		}
	case code == 404:
		e.Kind = KindNotFound
		if detail == "" {
			e.Message = "resource not found"
		}
	case code == 429:
		e.Kind = KindRateLimit
		if detail == "" {
			e.Message = "rate limit exceeded"
		}
	case code >= 500:
		e.Kind = KindTransient
		if detail == "" {
			e.Message = fmt.Sprintf("server returned status %d", code)
		}
	default:
		e.Kind = KindUnknown
		if detail == "" {
			e.Message = fmt.Sprintf("unexpected status %d", code)
		}
	}
	return e
}
