package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/dmitrymomot/eventscope/core/handler"
)

// testContext is a minimal handler.Context that keeps values on the request context.
type testContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *testContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}
func (c *testContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}
func (c *testContext) Err() error {
	return c.r.Context().Err()
}
func (c *testContext) Value(key any) any {
	return c.r.Context().Value(key)
}
func (c *testContext) Request() *http.Request {
	return c.r
}
func (c *testContext) ResponseWriter() http.ResponseWriter {
	return c.w
}
func (c *testContext) Param(key string) string {
	return ""
}
func (c *testContext) SetValue(key, val any) {
	ctx := context.WithValue(c.r.Context(), key, val)
	c.r = c.r.WithContext(ctx)
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{w: w, r: r}
}

// serve runs h behind the middlewares (first one outermost) and records the response.
func serve(req *http.Request, h handler.HandlerFunc[*testContext], mws ...handler.Middleware[*testContext]) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.Adapt(newTestContext, handler.Chain(h, mws...), nil).ServeHTTP(w, req)
	return w
}

func okResponse(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusOK)
	return nil
}
