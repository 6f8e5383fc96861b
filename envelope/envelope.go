package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Synthetic error codes for bodies that could not be decoded.
const (
	// CodeNullContent marks an empty response body.
	CodeNullContent = "NullContent"
	// CodeJSONError marks a body that is not valid JSON.
	CodeJSONError = "JsonError"
	// CodeDeserialization marks valid JSON that is not an envelope.
	CodeDeserialization = "DeserializationError"
)

// Error is one error entry in the envelope.
type Error struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Target  string  `json:"target,omitempty"`
	Details []Error `json:"details,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Target, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Pagination describes the slice of a collection the response covers.
type Pagination struct {
	TotalCount    int64 `json:"totalCount"`
	FilteredCount int64 `json:"filteredCount"`
	Skip          int   `json:"skip"`
	Top           int   `json:"top"`
	HasMore       bool  `json:"hasMore"`
}

// Envelope is the standardized response wrapper.
type Envelope struct {
	Data       json.RawMessage   `json:"data,omitempty"`
	Errors     []Error           `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// HasErrors reports whether the envelope carries any error entries.
func (e *Envelope) HasErrors() bool {
	return len(e.Errors) > 0
}

// FirstError returns the first error entry, or nil.
func (e *Envelope) FirstError() *Error {
	if len(e.Errors) == 0 {
		return nil
	}
	return &e.Errors[0]
}

// Result is a decoded envelope with its originating HTTP status. The
// status is preserved through every decode outcome: body problems never
// mask the transport-level result.
type Result struct {
	StatusCode int
	Envelope   Envelope
}

// Decode parses body into an envelope. It never fails: undecodable
// bodies yield an envelope with a synthetic error entry instead.
func Decode(statusCode int, body []byte) *Result {
	r := &Result{StatusCode: statusCode}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		r.Envelope.Errors = []Error{{
			Code:    CodeNullContent,
			Message: "response body was empty",
		}}
		return r
	}

	if !json.Valid(trimmed) {
		r.Envelope.Errors = []Error{{
			Code:    CodeJSONError,
			Message: "response body is not valid JSON",
		}}
		return r
	}

	if err := json.Unmarshal(trimmed, &r.Envelope); err != nil {
		r.Envelope = Envelope{Errors: []Error{{
			Code:    CodeDeserialization,
			Message: fmt.Sprintf("response body does not match the envelope shape: %v", err),
		}}}
		return r
	}

	return r
}

// DataAs decodes the envelope's data field into T. A missing data field
// yields the zero value.
func DataAs[T any](e *Envelope) (T, error) {
	var v T
	if len(e.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, fmt.Errorf("envelope: decode data: %w", err)
	}
	return v, nil
}
