// Package middleware provides HTTP middleware that ties request handling to event scopes.
//
// All middleware are generic over the request context type and plug into any router
// built on core/handler:
//
//	r.Use(
//		middleware.RequestID[*AppContext](),
//		middleware.Events[*AppContext](),
//	)
//
// # Events
//
// Events opens one event scope per request. Inside the handler, event.Store and
// event.Publish work on the request context; concurrent requests never share a
// registry. The scope ends when the response is rendered, and events nobody published
// are dropped.
//
// With AutoPublish the stored events run after the handler returns and before the
// response is written:
//
//	middleware.EventsWithConfig[*AppContext](middleware.EventsConfig{
//		Dispatcher:  dispatcher,
//		AutoPublish: true,
//	})
//
// For plain net/http servers, EventsHandler does the same for an http.Handler.
//
// # Request ID
//
// RequestID assigns every request an ID, stores it on the context and echoes it in the
// X-Request-ID response header. Registered before Events, the request ID is also the
// scope ID, so log lines from the handler and from the events it triggered correlate:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDAttrs, event.ContextAttrs))
package middleware
