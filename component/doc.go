// Package component defines the lifecycle interface apikit clients
// implement when embedded in a managed application: named Start/Stop with
// health reporting and an optional self-description for startup
// summaries.
package component
