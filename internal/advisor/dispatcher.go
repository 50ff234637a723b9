package advisor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stocklens/stocklens/internal/observability/metrics"
	"github.com/stocklens/stocklens/pkg/logging"
)

// Dispatcher tries an ordered list of providers until one succeeds. Ordering
// encodes a cost/quality preference: cheapest/fastest first. A provider that
// fails is only skipped for the current dispatch; no breaker or backoff
// state is kept between calls.
type Dispatcher struct {
	providers      []Provider
	attemptTimeout time.Duration
	logger         *logging.Logger
	metrics        *metrics.AdvisorMetrics
	tracer         trace.Tracer
}

// NewDispatcher creates a dispatcher over the given providers, in preference
// order. attemptTimeout bounds each individual provider call; zero disables
// the per-attempt bound.
func NewDispatcher(providers []Provider, attemptTimeout time.Duration, logger *logging.Logger, m *metrics.AdvisorMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		providers:      providers,
		attemptTimeout: attemptTimeout,
		logger:         logger,
		metrics:        m,
		tracer:         otel.Tracer("stocklens.internal.advisor.dispatch"),
	}
}

// Providers returns the configured provider names in attempt order.
func (d *Dispatcher) Providers() []string {
	names := make([]string, len(d.providers))
	for i, p := range d.providers {
		names[i] = p.Name()
	}
	return names
}

// Dispatch attempts each provider in order and returns the first successful
// response. Individual failures are recorded and swallowed; only total
// exhaustion is returned, as *ExhaustedError. With zero providers it fails
// immediately with ErrNoProviders and makes no HTTP attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "advisor.dispatch")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("stocklens.providers", d.Providers()))

	if len(d.providers) == 0 {
		d.metrics.ObserveDispatch("no_providers", time.Since(start).Seconds())
		span.RecordError(ErrNoProviders)
		return Response{}, ErrNoProviders
	}

	var attempts []Attempt
	for _, p := range d.providers {
		resp, err := d.attempt(ctx, p, req)
		if err == nil {
			d.metrics.ObserveAttempt(p.Name(), "success")
			d.metrics.ObserveDispatch("success", time.Since(start).Seconds())
			if len(attempts) > 0 {
				d.logger.Info("provider succeeded after fallback",
					"provider", p.Name(),
					"failed_attempts", len(attempts),
				)
			}
			return resp, nil
		}

		d.metrics.ObserveAttempt(p.Name(), "error")
		d.logger.Warn("provider failed, trying next",
			"provider", p.Name(),
			"error", err.Error(),
		)
		attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})
	}

	exhausted := &ExhaustedError{Attempts: attempts}
	d.metrics.ObserveDispatch("exhausted", time.Since(start).Seconds())
	span.RecordError(exhausted)
	d.logger.Error("all providers exhausted", "attempts", len(attempts))
	return Response{}, exhausted
}

func (d *Dispatcher) attempt(ctx context.Context, p Provider, req Request) (Response, error) {
	if d.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.attemptTimeout)
		defer cancel()
	}
	return p.Complete(ctx, req)
}
