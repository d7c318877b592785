package event

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/eventscope/core/logger"
)

const instrumentationName = "github.com/dmitrymomot/eventscope/core/event"

// Dispatcher creates event scopes and holds the configuration shared by their registries.
// A single Dispatcher is normally created at startup and used by the events middleware.
type Dispatcher struct {
	validator      *Validator
	validateTags   bool
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *Metrics
	strategy       Strategy
	maxConcurrency int
	publishTimeout time.Duration
}

// NewDispatcher creates a dispatcher with the given options.
//
// Example:
//
//	d := event.NewDispatcher(
//	    event.WithLogger(log),
//	    event.WithMaxConcurrency(8),
//	)
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		validator:    NewValidator(),
		validateTags: true,
		logger:       logger.Discard(),
		tracer:       otel.Tracer(instrumentationName),
		strategy:     Concurrent,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Strategy returns the publish strategy used when a caller does not pick one.
func (d *Dispatcher) Strategy() Strategy {
	return d.strategy
}

// NewScope creates a scope with a fresh, empty registry. The scope is not attached to
// any context; use Enter, or WithRegistry and Install, to make it ambient.
func (d *Dispatcher) NewScope(id string) *Scope {
	if id == "" {
		id = uuid.New().String()
	}
	return &Scope{registry: newRegistry(d, id)}
}

// Enter opens a new scope and returns a context carrying its registry. Any registry on
// ctx is shadowed for code using the returned context and is visible again to code
// still using ctx. The caller must call Exit on the scope, usually with defer.
//
// Example:
//
//	ctx, scope := d.Enter(ctx)
//	defer scope.Exit()
func (d *Dispatcher) Enter(ctx context.Context) (context.Context, *Scope) {
	s := d.NewScope("")
	return WithRegistry(ctx, s.registry), s
}

// Scoped runs fn inside a new scope. The scope is exited when fn returns or panics,
// dropping any events fn stored but did not publish.
func (d *Dispatcher) Scoped(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, s := d.Enter(ctx)
	defer s.Exit()
	return fn(ctx)
}

var defaultDispatcher atomic.Pointer[Dispatcher]

func init() {
	defaultDispatcher.Store(NewDispatcher())
}

// Default returns the dispatcher used by the package-level Enter and Scoped.
func Default() *Dispatcher {
	return defaultDispatcher.Load()
}

// SetDefault replaces the package-level dispatcher. A nil d is ignored.
func SetDefault(d *Dispatcher) {
	if d != nil {
		defaultDispatcher.Store(d)
	}
}

// Enter opens a scope using the default dispatcher.
func Enter(ctx context.Context) (context.Context, *Scope) {
	return Default().Enter(ctx)
}

// Scoped runs fn inside a scope of the default dispatcher.
func Scoped(ctx context.Context, fn func(ctx context.Context) error) error {
	return Default().Scoped(ctx, fn)
}
