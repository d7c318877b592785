package event_test

import (
	"context"
	"sync"
)

// Test parameter and event types shared by the event package tests.

type TestParameter struct {
	Content string `validate:"required"`
}

type OtherParameter struct {
	Value int
}

// TestEvent takes an optional parameter.
type TestEvent struct{}

func (TestEvent) Run(ctx context.Context, p *TestParameter) error { return nil }

type TestSecondEvent struct{}

func (TestSecondEvent) Run(ctx context.Context, p *TestParameter) error { return nil }

// AnyParameterEvent accepts any record, like an untyped handler.
type AnyParameterEvent struct{}

func (AnyParameterEvent) Run(ctx context.Context, p any) error { return nil }

// EventWithoutParameter has no parameter slot.
type EventWithoutParameter struct{}

func (EventWithoutParameter) Run(ctx context.Context) error { return nil }

type EventWithTwoParameters struct{}

func (EventWithTwoParameters) Run(ctx context.Context, a *TestParameter, b *TestParameter) error {
	return nil
}

// EventRequiringParameter takes a struct value, so a parameter is required.
type EventRequiringParameter struct{}

func (EventRequiringParameter) Run(ctx context.Context, p TestParameter) error { return nil }

type NotAnEvent struct{}

type RunWithoutError struct{}

func (RunWithoutError) Run(ctx context.Context, p *TestParameter) {}

type RunWithoutContext struct{}

func (RunWithoutContext) Run(name string, p *TestParameter) error { return nil }

type StringOrderEvent struct{}

func (StringOrderEvent) Order() string { return "1" }

func (StringOrderEvent) Run(ctx context.Context, p *TestParameter) error { return nil }

// PointerEvent implements Run on the pointer receiver only.
type PointerEvent struct {
	calls int
}

func (e *PointerEvent) Run(ctx context.Context, p *TestParameter) error {
	e.calls++
	return nil
}

// PointerOrderEvent runs on the value receiver but declares Order on the pointer receiver.
type PointerOrderEvent struct{}

func (*PointerOrderEvent) Order() int { return 3 }

func (PointerOrderEvent) Run(ctx context.Context, p *TestParameter) error { return nil }

// recorder collects event names in run order.
type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

type FirstEvent struct{ rec *recorder }

func (FirstEvent) Order() int { return 1 }

func (e FirstEvent) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("first")
	return nil
}

type SecondEvent struct{ rec *recorder }

func (SecondEvent) Order() int { return 2 }

func (e SecondEvent) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("second")
	return nil
}

type NoneOrderEvent struct{ rec *recorder }

func (e NoneOrderEvent) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("none")
	return nil
}

type SharedOrderA struct{ rec *recorder }

func (SharedOrderA) Order() int { return 1 }

func (e SharedOrderA) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("shared-a")
	return nil
}

type SharedOrderB struct{ rec *recorder }

func (SharedOrderB) Order() int { return 1 }

func (e SharedOrderB) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("shared-b")
	return nil
}

type NegativeOrderEvent struct{ rec *recorder }

func (NegativeOrderEvent) Order() int { return -100 }

func (e NegativeOrderEvent) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("negative")
	return nil
}

type LargeOrderEvent struct{ rec *recorder }

func (LargeOrderEvent) Order() int64 { return 1 << 40 }

func (e LargeOrderEvent) Run(ctx context.Context, p *TestParameter) error {
	e.rec.add("large")
	return nil
}

// FailingEvent returns err after recording its name.
type FailingEvent struct {
	rec *recorder
	err error
}

func (FailingEvent) Order() int { return 1 }

func (e FailingEvent) Run(ctx context.Context, p *TestParameter) error {
	if e.rec != nil {
		e.rec.add("failing")
	}
	return e.err
}

type OtherFailingEvent struct{ err error }

func (e OtherFailingEvent) Run(ctx context.Context, p *TestParameter) error { return e.err }

type PanickingEvent struct{}

func (PanickingEvent) Run(ctx context.Context, p *TestParameter) error {
	panic("boom")
}

// FuncEvent runs an arbitrary function; FuncEventB is a distinct type with the same shape.
type FuncEvent struct {
	fn func(ctx context.Context, p *TestParameter) error
}

func (e FuncEvent) Run(ctx context.Context, p *TestParameter) error { return e.fn(ctx, p) }

type FuncEventB struct {
	fn func(ctx context.Context, p *TestParameter) error
}

func (e FuncEventB) Run(ctx context.Context, p *TestParameter) error { return e.fn(ctx, p) }
