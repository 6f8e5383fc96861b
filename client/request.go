package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/apikit/envelope"
)

// Request is the ephemeral context of one logical call: the resource,
// the method, and the headers/query parameters accumulated by the
// authenticator. Created by Prepare, discarded after classification.
type Request struct {
	// ID correlates log lines and spans for this call.
	ID string
	// Method is the HTTP method.
	Method string
	// Resource is the resource path appended to the base URL.
	Resource string
	// Headers are request headers (defaults plus scheme output).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or
	// any value that will be JSON-encoded.
	Body any
}

// SetHeader sets a request header. Part of the auth.Target surface.
func (r *Request) SetHeader(name, value string) { r.Headers[name] = value }

// HasHeader reports whether a header is already set.
func (r *Request) HasHeader(name string) bool { _, ok := r.Headers[name]; return ok }

// SetQuery sets a query parameter. Part of the auth.Target surface.
func (r *Request) SetQuery(name, value string) { r.Query[name] = value }

// HasQuery reports whether a query parameter is already set.
func (r *Request) HasQuery(name string) bool { _, ok := r.Query[name]; return ok }

// Response is the raw result of an executed request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true for 2xx statuses.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsNotFound returns true for 404, a valid business outcome here.
func (r *Response) IsNotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// Envelope decodes the body into the uniform response envelope,
// tolerating empty, non-JSON and wrong-shape bodies.
func (r *Response) Envelope() *envelope.Result {
	return envelope.Decode(r.StatusCode, r.Body)
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
