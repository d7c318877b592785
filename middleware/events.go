package middleware

import (
	"net/http"

	"github.com/dmitrymomot/eventscope/core/event"
	"github.com/dmitrymomot/eventscope/core/handler"
)

// EventsConfig configures the events middleware.
type EventsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Dispatcher creates the per-request scopes (default: event.Default())
	Dispatcher *event.Dispatcher
	// AutoPublish runs the stored events with the dispatcher's default strategy after
	// the handler returns and before its response is rendered. A publish error is
	// returned from the response so the router's error handler renders it.
	AutoPublish bool
}

// Events creates a middleware that opens one event scope per request.
// Handlers store events with event.Store(ctx, ...) and publish them explicitly or
// through event.Listen. Events left unpublished when the response is rendered are dropped.
func Events[C handler.Context]() handler.Middleware[C] {
	return EventsWithConfig[C](EventsConfig{})
}

// EventsWithConfig creates an events middleware with custom configuration.
// When the request ID middleware runs first, the request ID becomes the scope ID.
//
// The scope exits when the handler panics, when it returns a nil Response, or once the
// returned Response has been called. The router must call every non-nil Response, as
// handler.Adapt does; a dropped Response leaves the scope open and the installed
// registry in place on the context.
func EventsWithConfig[C handler.Context](cfg EventsConfig) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			d := cfg.Dispatcher
			if d == nil {
				d = event.Default()
			}

			requestID, _ := GetRequestID(ctx)
			scope := d.NewScope(requestID)
			restore := event.Install(ctx, scope.Registry())

			exit := func() {
				scope.Exit()
				restore()
			}

			// Exit right away if the handler panics or renders nothing.
			var response handler.Response
			func() {
				defer func() {
					if response == nil {
						exit()
					}
				}()
				response = next(ctx)
			}()

			if response == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer exit()

				if cfg.AutoPublish {
					if err := scope.Registry().Publish(ctx, d.Strategy()); err != nil {
						return err
					}
				}

				return response(w, r)
			}
		}
	}
}

// EventsHandler wraps a plain net/http handler so each request runs in its own event
// scope. The X-Request-ID header, if present, becomes the scope ID.
//
// Example:
//
//	http.ListenAndServe(":8080", middleware.EventsHandler(d, mux))
func EventsHandler(d *event.Dispatcher, next http.Handler) http.Handler {
	if d == nil {
		d = event.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := d.NewScope(r.Header.Get("X-Request-ID"))
		defer scope.Exit()

		next.ServeHTTP(w, r.WithContext(event.WithRegistry(r.Context(), scope.Registry())))
	})
}
