package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every error the client returns to callers.
type ErrorKind int

const (
	// KindUnknown is reported for errors that did not originate in this library.
	KindUnknown ErrorKind = iota
	// KindStatusCode means the service was reached but rejected the request.
	KindStatusCode
	// KindTransport means the request never completed.
	KindTransport
	// KindSerialization means a payload could not be encoded or decoded.
	KindSerialization
	// KindEnumConversion means a string did not match any vocabulary member.
	KindEnumConversion
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindStatusCode:
		return "status_code"
	case KindTransport:
		return "transport"
	case KindSerialization:
		return "serialization"
	case KindEnumConversion:
		return "enum_conversion"
	default:
		return "unknown"
	}
}

// Common static errors that can be wrapped with context.
var (
	ErrNoEnum                   = errors.New("no proper enum was found")
	ErrConfigRequired           = errors.New("config is required")
	ErrNoCredentials            = errors.New("no credentials configured")
	ErrNoTokenManager           = errors.New("no token manager configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrInvalidID                = errors.New("invalid spotify id")
	ErrWrongIDType              = errors.New("spotify URI has the wrong type")
	ErrTooManyIDs               = errors.New("too many ids for a single request")
	ErrEmptyIDs                 = errors.New("at least one id is required")
	ErrEmptyQuery               = errors.New("search query is required")
	ErrEmptySearchTypes         = errors.New("at least one search type is required")
	ErrInvalidVolume            = errors.New("volume must be between 0 and 100")
	ErrUnsupportedBackend       = errors.New("unsupported backend")
	ErrRequestRequired          = errors.New("request body is required")
	ErrInvalidPosition          = errors.New("position must not be negative")
	ErrDeviceRequired           = errors.New("device id is required")
)

// StatusCodeError is returned when the service answered with a non-2xx status.
type StatusCodeError struct {
	Code    int    `json:"status"`
	Status  string `json:"-"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Error implements the error interface.
func (e *StatusCodeError) Error() string {
	msg := fmt.Sprintf("spotify: status %d %s", e.Code, e.Status)

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}

	return msg
}

// TransportError is returned when the request could not be completed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("spotify: transport failure: %v", e.Err)
	}

	return fmt.Sprintf("spotify: %s %s failed: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// SerializationError is returned when a payload could not be encoded or decoded.
type SerializationError struct {
	Err error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("spotify: serialization failure: %v", e.Err)
}

// Unwrap returns the underlying failure.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// EnumError is returned when a string is not a member of a vocabulary.
type EnumError struct {
	Type  string
	Value string
}

// Error implements the error interface.
func (e *EnumError) Error() string {
	return fmt.Sprintf("can't find proper %s enum of %q", e.Type, e.Value)
}

// Is reports ErrNoEnum as the sentinel for every EnumError.
func (e *EnumError) Is(target error) bool {
	return target == ErrNoEnum
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) ErrorKind {
	var (
		statusErr    *StatusCodeError
		transportErr *TransportError
		serialErr    *SerializationError
		enumErr      *EnumError
	)

	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &statusErr):
		return KindStatusCode
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &serialErr):
		return KindSerialization
	case errors.As(err, &enumErr):
		return KindEnumConversion
	default:
		return KindUnknown
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	statusErr := &StatusCodeError{}
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsRateLimited checks if the service rejected the call for exceeding its rate limit.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

// errorEnvelope is the Web API error body: {"error": {"status": 404, "message": "..."}}.
// The accounts service uses {"error": "invalid_client", "error_description": "..."} instead.
type errorEnvelope struct {
	Error            json.RawMessage `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// NewStatusCodeError builds a StatusCodeError, filling message and reason from
// the response body when it carries a recognizable error envelope.
func NewStatusCodeError(code int, status string, body []byte) *StatusCodeError {
	statusErr := &StatusCodeError{Code: code, Status: status}

	var envelope errorEnvelope
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil || len(envelope.Error) == 0 {
		return statusErr
	}

	var detail struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}

	if json.Unmarshal(envelope.Error, &detail) == nil {
		statusErr.Message = detail.Message
		statusErr.Reason = detail.Reason

		return statusErr
	}

	var errorCode string
	if json.Unmarshal(envelope.Error, &errorCode) == nil {
		statusErr.Reason = errorCode
		statusErr.Message = envelope.ErrorDescription
	}

	return statusErr
}
