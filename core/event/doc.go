// Package event provides request-scoped deferred events: code running during a request
// stores events, and the stored events are run together at a chosen point, usually
// after the handler succeeds or at the end of the request.
//
// # Core Components
//
// An event type is any type with a method Run(ctx context.Context, param P) error.
// The generic Event interface documents the contract and allows compile-time checks.
// An optional Order() int method places the event in ordered publishing.
//
// Registry holds the events stored during one scope. Storing the same event type twice
// keeps the last event and parameter. Publish runs and clears the registry.
//
// Dispatcher creates scopes and holds shared settings: logger, tracer, metrics,
// validator, concurrency limit and publish timeout.
//
// Scope owns one registry. The registry travels on a context.Context, so concurrent
// requests never see each other's events and nested scopes shadow the outer one.
//
// Listen and ListenFunc wrap an operation so the ambient registry is published when it
// succeeds.
//
// # Basic Usage
//
//	type WelcomeParams struct {
//		Email string `validate:"required,email"`
//	}
//
//	type SendWelcomeEmail struct{}
//
//	func (SendWelcomeEmail) Run(ctx context.Context, p *WelcomeParams) error {
//		return mailer.Send(ctx, p.Email, "Welcome!")
//	}
//
//	err := event.Scoped(ctx, func(ctx context.Context) error {
//		if err := event.Store(ctx, SendWelcomeEmail{}, &WelcomeParams{Email: "a@b.c"}); err != nil {
//			return err
//		}
//		return event.Publish(ctx, event.Concurrent)
//	})
//
// # Parameters
//
// A parameter is a struct or a pointer to a struct, assignable to Run's parameter type.
// When Run takes a pointer or an interface, the parameter is optional and Run receives
// nil if none was stored. When Run takes a struct value, the parameter is required.
// Struct fields are checked against their `validate` tags using
// github.com/go-playground/validator/v10.
//
// # Publish Strategies
//
// Concurrent runs all events at once and waits for all of them. Failures do not cancel
// the other events; every failure is returned (errors.Join when there are several).
//
// Sequential runs events one at a time. Events with an Order method run first,
// ascending by order; events sharing an order run in the order they were stored.
// Events without an Order method run last. The first failure stops the publish.
//
//	type ChargeCard struct{}
//
//	func (ChargeCard) Order() int { return 1 }
//	func (ChargeCard) Run(ctx context.Context, p OrderParams) error { ... }
//
//	type SendReceipt struct{}
//
//	func (SendReceipt) Order() int { return 2 }
//	func (SendReceipt) Run(ctx context.Context, p OrderParams) error { ... }
//
// In both strategies the registry is empty after Publish returns, even on failure.
//
// # Listener
//
//	checkout := event.ListenFunc(func(ctx context.Context) error {
//		if err := event.Store(ctx, ChargeCard{}, params); err != nil {
//			return err
//		}
//		return event.Store(ctx, SendReceipt{}, params)
//	}, event.RunAtOnce(false))
//
//	err := checkout(ctx) // ChargeCard then SendReceipt, if the body succeeded
//
// # HTTP
//
// The middleware package opens one scope per request:
//
//	r.Use(middleware.Events[*AppContext]())
//
// Handlers then call event.Store with the request context. Without the middleware,
// Store and Publish return ErrEmptyContext.
//
// # Observability
//
// Store and publish are logged with log/slog (discarded unless WithLogger is set).
// Publish and every event run get an OpenTelemetry span, and WithMetrics records
// Prometheus counters and a run duration histogram. Inside Run, the context carries
// EventID, EventName, EventTime, StartProcessingTime and ScopeID.
package event
