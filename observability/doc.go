// Package observability bootstraps OpenTelemetry tracing and metrics for
// applications embedding apikit clients. The client package records spans
// and counters through the global otel providers; installing providers
// here makes them flow to an OTLP endpoint.
package observability
