package event

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger configures structured logging for store and publish operations.
// Events are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTracer sets the tracer used for publish and run spans.
// The global OpenTelemetry tracer provider is used by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// WithMetrics enables Prometheus metrics.
//
// Example:
//
//	d := event.NewDispatcher(
//	    event.WithMetrics(event.NewMetrics(prometheus.DefaultRegisterer)),
//	)
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithValidator replaces the validator used by Store.
func WithValidator(v *Validator) Option {
	return func(d *Dispatcher) {
		if v != nil {
			d.validator = v
		}
	}
}

// WithParameterValidation toggles struct tag validation of parameters.
// The parameter shape is always checked. The validator set with WithValidator or
// WithStructTags is kept either way.
func WithParameterValidation(enabled bool) Option {
	return func(d *Dispatcher) {
		d.validateTags = enabled
	}
}

// WithStructTags replaces the go-playground validator used for parameter struct tags,
// for applications that register custom validations.
func WithStructTags(v *validator.Validate) Option {
	return func(d *Dispatcher) {
		d.validator = NewValidator(WithStructValidator(v))
	}
}

// WithDefaultStrategy sets the strategy used when the caller does not choose one.
func WithDefaultStrategy(s Strategy) Option {
	return func(d *Dispatcher) {
		d.strategy = s
	}
}

// WithMaxConcurrency limits how many events a Concurrent publish runs at the same time.
// Zero (the default) means no limit.
func WithMaxConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.maxConcurrency = n
		}
	}
}

// WithPublishTimeout bounds each Publish call. The deadline reaches events through the
// context passed to Run. Zero (the default) means no timeout.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout >= 0 {
			d.publishTimeout = timeout
		}
	}
}

// WithConfig applies a loaded Config.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) {
		WithDefaultStrategy(cfg.Strategy)(d)
		WithMaxConcurrency(cfg.MaxConcurrency)(d)
		WithPublishTimeout(cfg.PublishTimeout)(d)
		WithParameterValidation(cfg.ValidateParameters)(d)
	}
}
