// Package eventscope provides request-scoped deferred events for Go web services:
// handlers store events while they work, and the events run together once the work
// has succeeded.
//
// # Package Organization
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/dmitrymomot/eventscope/core/event
//	go doc -all github.com/dmitrymomot/eventscope/middleware
//
// Core packages:
//
//	github.com/dmitrymomot/eventscope/core/event    - Event contract, registry, scopes, publish strategies, listener
//	github.com/dmitrymomot/eventscope/core/handler  - Generic request context, handler and middleware types
//	github.com/dmitrymomot/eventscope/core/logger   - Structured logging built on slog
//	github.com/dmitrymomot/eventscope/core/config   - Type-safe environment variable loading
//
// Middleware:
//
//	github.com/dmitrymomot/eventscope/middleware    - Per-request event scopes and request IDs
//
// Utilities:
//
//	github.com/dmitrymomot/eventscope/pkg/async     - Goroutine futures used for concurrent publishing
//
// # Quick Start
//
//	cfg, err := event.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	dispatcher := event.NewDispatcher(
//		event.WithConfig(cfg),
//		event.WithLogger(logger.New(logger.WithProduction("api"))),
//		event.WithMetrics(event.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//
//	signup := handler.Chain(signupHandler,
//		middleware.RequestID[*AppContext](),
//		middleware.EventsWithConfig[*AppContext](middleware.EventsConfig{Dispatcher: dispatcher}),
//	)
//	http.Handle("/signup", handler.Adapt(NewAppContext, signup, nil))
//
// Inside signupHandler:
//
//	createUser := event.Listen(func(ctx context.Context) (*User, error) {
//		user, err := repo.Create(ctx, input)
//		if err != nil {
//			return nil, err
//		}
//		return user, event.Store(ctx, SendWelcomeEmail{}, &WelcomeParams{Email: user.Email})
//	})
//	user, err := createUser(ctx)
package eventscope
