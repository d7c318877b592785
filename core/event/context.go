package event

import (
	"context"
	"time"
)

type eventIDCtx struct{}

// WithEventID attaches an event ID to the context.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDCtx{}, id)
}

// EventID extracts the ID of the event being run.
// Returns empty string if not present.
func EventID(ctx context.Context) string {
	if id, ok := ctx.Value(eventIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type eventNameCtx struct{}

// WithEventName attaches an event name to the context.
func WithEventName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, eventNameCtx{}, name)
}

// EventName extracts the name of the event being run.
// Returns empty string if not present.
func EventName(ctx context.Context) string {
	if name, ok := ctx.Value(eventNameCtx{}).(string); ok {
		return name
	}
	return ""
}

type eventTimeCtx struct{}

// WithEventTime attaches the time the event was stored to the context.
func WithEventTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, eventTimeCtx{}, t)
}

// EventTime extracts the time the running event was stored.
// Returns zero time if not present.
func EventTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(eventTimeCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

type scopeIDCtx struct{}

// WithScopeID attaches the scope (request) ID to the context.
func WithScopeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, scopeIDCtx{}, id)
}

// ScopeID extracts the ID of the scope that stored the running event.
// Returns empty string if not present.
func ScopeID(ctx context.Context) string {
	if id, ok := ctx.Value(scopeIDCtx{}).(string); ok {
		return id
	}
	return ""
}

// withEntryMeta attaches all metadata of a stored entry to the run context.
func withEntryMeta(ctx context.Context, scopeID string, e *entry) context.Context {
	ctx = WithScopeID(ctx, scopeID)
	ctx = WithEventID(ctx, e.id)
	ctx = WithEventName(ctx, e.desc.name)
	ctx = WithEventTime(ctx, e.storedAt)
	return ctx
}

type startProcessingAt struct{}

// WithStartProcessingTime attaches the processing start time to the context.
func WithStartProcessingTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startProcessingAt{}, t)
}

// StartProcessingTime extracts the time the running event started.
// Returns zero time if not present.
func StartProcessingTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(startProcessingAt{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}
