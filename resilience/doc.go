// Package resilience provides the retry and circuit breaker primitives
// the request executor is built on.
//
// Retry uses power-of-two backoff: the nth retry waits BaseDelay * 2^n,
// with no jitter unless configured. The circuit breaker fails fast after
// repeated failures and probes recovery through a half-open state.
package resilience
