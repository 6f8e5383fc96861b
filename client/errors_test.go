package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kbukum/apikit/transport"
)

func TestTerminalStatusSet(t *testing.T) {
	for _, status := range []int{200, 201, 204, 404, 401, 400, 422} {
		if !IsTerminalStatus(status) {
			t.Errorf("expected %d to be terminal", status)
		}
	}
	for _, status := range []int{403, 429, 500, 502, 503, 504} {
		if IsTerminalStatus(status) {
			t.Errorf("expected %d to be retryable", status)
		}
	}
}

func TestAcceptedStatusSet(t *testing.T) {
	for _, status := range []int{200, 201, 204, 404} {
		if !IsAcceptedStatus(status) {
			t.Errorf("expected %d to be accepted", status)
		}
	}
	for _, status := range []int{400, 401, 422, 500} {
		if IsAcceptedStatus(status) {
			t.Errorf("expected %d not to be accepted", status)
		}
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		code ErrorCode
		pred func(error) bool
	}{
		{ErrCodeInvalidArgument, IsInvalidArgument},
		{ErrCodeAuth, IsAuth},
		{ErrCodeTransport, IsTransport},
		{ErrCodeHTTP, IsHTTP},
		{ErrCodeCancelled, IsCancelled},
	}
	for _, tt := range tests {
		err := &Error{Code: tt.code, Message: "x"}
		if !tt.pred(err) {
			t.Errorf("%s: predicate rejected matching error", tt.code)
		}
		if tt.pred(errors.New("plain")) {
			t.Errorf("%s: predicate accepted a plain error", tt.code)
		}
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", &Error{Code: ErrCodeAuth, Message: "denied"})
	if !IsAuth(err) {
		t.Error("expected wrapped auth error to be recognized")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", &Error{Code: ErrCodeTransport}, true},
		{"transport pool closed", &Error{Code: ErrCodeTransport, Err: transport.ErrPoolClosed}, false},
		{"http 500", &Error{Code: ErrCodeHTTP, StatusCode: 500}, true},
		{"http 503", &Error{Code: ErrCodeHTTP, StatusCode: 503}, true},
		{"http 403", &Error{Code: ErrCodeHTTP, StatusCode: 403}, true},
		{"http 400", &Error{Code: ErrCodeHTTP, StatusCode: 400}, false},
		{"http 401", &Error{Code: ErrCodeHTTP, StatusCode: 401}, false},
		{"http 422", &Error{Code: ErrCodeHTTP, StatusCode: 422}, false},
		{"auth", &Error{Code: ErrCodeAuth}, false},
		{"invalid argument", &Error{Code: ErrCodeInvalidArgument}, false},
		{"cancelled", &Error{Code: ErrCodeCancelled}, false},
		{"plain error", errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("%s: isRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: ErrCodeHTTP, StatusCode: 503, Method: "GET", Resource: "/things", Message: "Service Unavailable"}
	want := "client: http: GET /things: HTTP 503: Service Unavailable"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	err = &Error{Code: ErrCodeTransport, Message: "dial failed"}
	want = "client: transport: dial failed"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: ErrCodeTransport, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}
