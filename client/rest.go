package client

import (
	"context"

	"github.com/kbukum/apikit/envelope"
)

// Result pairs a decoded envelope with its typed payload.
type Result[T any] struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Envelope is the tolerantly decoded response envelope.
	Envelope *envelope.Result
	// Data is the typed payload. Zero when the envelope carried no data or
	// decoding it failed; the envelope's error entries say which.
	Data T
}

// Get executes a GET and decodes the enveloped payload into T.
func Get[T any](ctx context.Context, c *Client, resource string) (*Result[T], error) {
	return exchange[T](ctx, c, "GET", resource, nil)
}

// Post executes a POST with a JSON body and decodes the payload into T.
func Post[T any](ctx context.Context, c *Client, resource string, body any) (*Result[T], error) {
	return exchange[T](ctx, c, "POST", resource, body)
}

// Put executes a PUT with a JSON body and decodes the payload into T.
func Put[T any](ctx context.Context, c *Client, resource string, body any) (*Result[T], error) {
	return exchange[T](ctx, c, "PUT", resource, body)
}

// Patch executes a PATCH with a JSON body and decodes the payload into T.
func Patch[T any](ctx context.Context, c *Client, resource string, body any) (*Result[T], error) {
	return exchange[T](ctx, c, "PATCH", resource, body)
}

// Delete executes a DELETE and decodes the enveloped payload into T.
func Delete[T any](ctx context.Context, c *Client, resource string) (*Result[T], error) {
	return exchange[T](ctx, c, "DELETE", resource, nil)
}

func exchange[T any](ctx context.Context, c *Client, method, resource string, body any) (*Result[T], error) {
	resp, err := c.Do(ctx, method, resource, body)
	if err != nil {
		return nil, err
	}

	env := resp.Envelope()
	result := &Result[T]{StatusCode: resp.StatusCode, Envelope: env}
	if len(env.Envelope.Data) > 0 {
		data, derr := envelope.DataAs[T](&env.Envelope)
		if derr != nil {
			env.Envelope.Errors = append(env.Envelope.Errors, envelope.Error{
				Code:    envelope.CodeDeserialization,
				Message: derr.Error(),
				Target:  "data",
			})
		} else {
			result.Data = data
		}
	}
	return result, nil
}
