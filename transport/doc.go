// Package transport owns the HTTP transports requests travel through.
//
// A Pool keeps at most one *http.Client per distinct base URL
// (case-insensitive) for its whole lifetime. Construction is guarded by a
// mutex; the constructed clients are safe for concurrent use without it.
// This is a cache of expensive objects, not a connection-level guarantee.
package transport
