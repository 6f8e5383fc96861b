// Package provider defines the minimal generic interfaces apikit
// components satisfy so they can plug into provider-based applications.
package provider

import "context"

// RequestResponse is a provider that answers one request with one
// response.
type RequestResponse[I, O any] interface {
	// Name identifies the provider.
	Name() string
	// Execute processes a single request.
	Execute(ctx context.Context, input I) (O, error)
}

// Closeable is a provider that owns resources needing release.
type Closeable interface {
	Close(ctx context.Context) error
}
