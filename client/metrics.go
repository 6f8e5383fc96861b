package client

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName scopes this package's telemetry.
const instrumentationName = "github.com/kbukum/apikit/client"

// instruments holds the otel counters the executor records into. All
// counters are best-effort: a failed instrument registration leaves the
// counter nil and recording becomes a no-op.
type instruments struct {
	tracer   trace.Tracer
	attempts metric.Int64Counter
	retries  metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)
	ins := &instruments{tracer: otel.Tracer(instrumentationName)}

	ins.attempts, _ = meter.Int64Counter("apikit.client.attempts",
		metric.WithDescription("HTTP attempts, including retries"))
	ins.retries, _ = meter.Int64Counter("apikit.client.retries",
		metric.WithDescription("Retries scheduled after retryable failures"))
	return ins
}

func (i *instruments) addAttempt(ctx context.Context) {
	if i.attempts != nil {
		i.attempts.Add(ctx, 1)
	}
}

func (i *instruments) addRetry(ctx context.Context) {
	if i.retries != nil {
		i.retries.Add(ctx, 1)
	}
}
