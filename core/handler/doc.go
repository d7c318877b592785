// Package handler defines the request context, handler and middleware types that the
// middleware package is written against.
//
// A Context is a context.Context with access to the request and a SetValue method for
// request-scoped values. The events middleware uses SetValue to install the request's
// event registry, so any Context implementation whose Value sees values set with
// SetValue works:
//
//	func (c *AppContext) SetValue(key, val any) {
//		c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, val))
//	}
//
// Handlers return a Response, which renders the result later:
//
//	func signup(ctx *AppContext) handler.Response {
//		if err := event.Store(ctx, SendWelcomeEmail{}, &WelcomeParams{Email: email}); err != nil {
//			return errorResponse(err)
//		}
//		return func(w http.ResponseWriter, r *http.Request) error {
//			w.WriteHeader(http.StatusCreated)
//			return nil
//		}
//	}
//
// Middleware wraps a HandlerFunc and may wrap the Response it returns to run code
// after rendering.
package handler
