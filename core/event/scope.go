package event

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrymomot/eventscope/core/logger"
)

// Scope owns one registry for the extent of a unit of work, typically one request.
type Scope struct {
	registry *Registry
	once     sync.Once
}

// Registry returns the scope's registry.
func (s *Scope) Registry() *Registry {
	return s.registry
}

// ID returns the scope identifier.
func (s *Scope) ID() string {
	return s.registry.id
}

// Exit closes the scope. Unpublished events are dropped, and Store and Publish on any
// context still carrying the registry fail with ErrEmptyContext. Exit is idempotent.
func (s *Scope) Exit() {
	s.once.Do(s.registry.close)
}

type registryCtx struct{}

// WithRegistry returns a copy of ctx carrying r as the ambient registry.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryCtx{}, r)
}

// ValueSetter is a request context that stores values in place, such as handler.Context.
type ValueSetter interface {
	Value(key any) any
	SetValue(key, val any)
}

// Install makes r the ambient registry of c and returns a function that puts back
// whatever registry (or none) c carried before.
//
// Example:
//
//	restore := event.Install(ctx, scope.Registry())
//	defer restore()
func Install(c ValueSetter, r *Registry) (restore func()) {
	prev := c.Value(registryCtx{})
	c.SetValue(registryCtx{}, r)
	return func() {
		c.SetValue(registryCtx{}, prev)
	}
}

// FromContext returns the ambient registry of ctx.
// Returns ErrEmptyContext if there is none or its scope has exited.
func FromContext(ctx context.Context) (*Registry, error) {
	r, ok := ctx.Value(registryCtx{}).(*Registry)
	if !ok || r == nil || r.isClosed() {
		return nil, ErrEmptyContext
	}
	return r, nil
}

// Store records evt with an optional param in the ambient registry.
// A nil param means no parameter.
//
// Example:
//
//	err := event.Store(ctx, SendWelcomeEmail{}, &WelcomeParams{Email: user.Email})
func Store(ctx context.Context, evt any, param any) error {
	r, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return r.Store(evt, param)
}

// StoreEvent records a new zero-valued E in the ambient registry. Pointer types are
// allocated, so StoreEvent[*AuditLog] stores a non-nil *AuditLog.
//
// Example:
//
//	err := event.StoreEvent[SendWelcomeEmail](ctx, &WelcomeParams{Email: user.Email})
func StoreEvent[E any](ctx context.Context, param any) error {
	return Store(ctx, newInstance[E](), param)
}

// Publish runs and clears the events in the ambient registry.
func Publish(ctx context.Context, strategy Strategy) error {
	r, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return r.Publish(ctx, strategy)
}

// ContextAttrs is a logger.ContextExtractor adding the scope ID and the running
// event's ID and type to log records.
//
// Example:
//
//	log := logger.New(logger.WithContextExtractors(event.ContextAttrs))
func ContextAttrs(ctx context.Context) (slog.Attr, bool) {
	var attrs []slog.Attr

	scopeID := ScopeID(ctx)
	if scopeID == "" {
		if r, ok := ctx.Value(registryCtx{}).(*Registry); ok && r != nil {
			scopeID = r.id
		}
	}
	if scopeID != "" {
		attrs = append(attrs, logger.ScopeID(scopeID))
	}
	if id := EventID(ctx); id != "" {
		attrs = append(attrs, logger.EventID(id))
	}
	if name := EventName(ctx); name != "" {
		attrs = append(attrs, logger.EventType(name))
	}

	if len(attrs) == 0 {
		return slog.Attr{}, false
	}
	return logger.Group("events", attrs...), true
}

func newInstance[E any]() any {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	var zero E
	return zero
}
