package handler

import "net/http"

// Response is a function that renders HTTP responses.
// Rendering errors are passed to the ErrorHandler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a type-safe HTTP request handler with custom context support.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler handles errors returned while rendering a Response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps handlers to add cross-cutting functionality.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain wraps h with the middlewares. The first middleware is the outermost.
func Chain[C Context](h HandlerFunc[C], mws ...Middleware[C]) HandlerFunc[C] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Adapt turns h into an http.Handler. newContext builds the request context for each
// request. A nil Response is answered with 204 No Content. Render errors go to onError,
// or become a 500 response when onError is nil.
//
// Example:
//
//	http.Handle("/signup", handler.Adapt(NewAppContext,
//		handler.Chain(signup, middleware.RequestID[*AppContext](), middleware.Events[*AppContext]()),
//		nil,
//	))
func Adapt[C Context](newContext func(w http.ResponseWriter, r *http.Request) C, h HandlerFunc[C], onError ErrorHandler[C]) http.Handler {
	if onError == nil {
		onError = func(ctx C, err error) {
			http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := newContext(w, r)

		response := h(ctx)
		if response == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err := response(w, ctx.Request()); err != nil {
			onError(ctx, err)
		}
	})
}
