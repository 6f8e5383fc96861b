package client

import (
	"errors"
	"fmt"

	"github.com/kbukum/apikit/transport"
)

// ErrorCode classifies request execution errors.
type ErrorCode int

const (
	// ErrCodeInvalidArgument indicates malformed caller input (empty
	// resource, base URL or audience). Never retried.
	ErrCodeInvalidArgument ErrorCode = iota
	// ErrCodeAuth indicates credential or token acquisition failure.
	// Never retried.
	ErrCodeAuth
	// ErrCodeTransport indicates a network-level failure or an absent
	// response. Retried per policy.
	ErrCodeTransport
	// ErrCodeHTTP indicates a status outside the acceptable set that
	// survived the retry loop, or a terminal client rejection.
	ErrCodeHTTP
	// ErrCodeCancelled indicates cooperative cancellation. Distinct from
	// failure and never logged as an error.
	ErrCodeCancelled
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeHTTP:
		return "http"
	case ErrCodeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is a typed request execution failure.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// StatusCode is the HTTP status (0 for pre-network failures).
	StatusCode int
	// Method is the HTTP method of the failed request.
	Method string
	// Resource is the resource path of the failed request.
	Resource string
	// Message describes the error.
	Message string
	// Body is the response body, truncated for transport (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0 && e.Resource != "":
		return fmt.Sprintf("client: %s %s %s: HTTP %d: %s", e.Code, e.Method, e.Resource, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("client: %s: HTTP %d: %s", e.Code, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("client: %s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// terminalStatuses stop the retry loop: success, not-found, and definite
// client-side rejections that retrying cannot help.
var terminalStatuses = map[int]bool{
	200: true, 201: true, 204: true,
	404: true, 401: true, 400: true, 422: true,
}

// acceptedStatuses return a normal response to the caller. 404 is
// included: resource absence is a valid business outcome.
var acceptedStatuses = map[int]bool{
	200: true, 201: true, 204: true, 404: true,
}

// IsTerminalStatus reports whether a status stops the retry loop.
func IsTerminalStatus(status int) bool {
	return terminalStatuses[status]
}

// IsAcceptedStatus reports whether a status is returned as a normal
// result rather than raised.
func IsAcceptedStatus(status int) bool {
	return acceptedStatuses[status]
}

// IsInvalidArgument checks if err is a malformed-input error.
func IsInvalidArgument(err error) bool { return hasCode(err, ErrCodeInvalidArgument) }

// IsAuth checks if err is an authentication failure.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsTransport checks if err is a network-level failure.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsHTTP checks if err is a terminal HTTP failure.
func IsHTTP(err error) bool { return hasCode(err, ErrCodeHTTP) }

// IsCancelled checks if err is a cancellation outcome.
func IsCancelled(err error) bool { return hasCode(err, ErrCodeCancelled) }

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// isRetryable decides whether the retry loop should continue after err.
// Only transport failures and non-terminal HTTP statuses are retryable.
func isRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeTransport:
		// A disposed pool will not come back.
		return !errors.Is(e.Err, transport.ErrPoolClosed)
	case ErrCodeHTTP:
		return !IsTerminalStatus(e.StatusCode)
	default:
		return false
	}
}
