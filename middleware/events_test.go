package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventscope/core/event"
	"github.com/dmitrymomot/eventscope/core/handler"
	"github.com/dmitrymomot/eventscope/middleware"
)

type welcomeParams struct {
	Email string `validate:"required,email"`
}

type sendWelcome struct {
	sent *atomic.Int32
}

func (e sendWelcome) Run(ctx context.Context, p *welcomeParams) error {
	e.sent.Add(1)
	return nil
}

type failingEvent struct{}

func (failingEvent) Run(ctx context.Context, p *welcomeParams) error {
	return errors.New("mailer down")
}

func TestEventsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("handler can store and publish", func(t *testing.T) {
		t.Parallel()

		var sent atomic.Int32
		d := event.NewDispatcher()

		h := func(ctx *testContext) handler.Response {
			err := event.ListenFunc(func(ctx context.Context) error {
				return event.Store(ctx, sendWelcome{sent: &sent}, &welcomeParams{Email: "a@example.com"})
			})(ctx)
			require.NoError(t, err)
			return okResponse
		}

		w := serve(httptest.NewRequest(http.MethodPost, "/signup", nil), h,
			middleware.EventsWithConfig[*testContext](middleware.EventsConfig{Dispatcher: d}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(1), sent.Load())
	})

	t.Run("unpublished events are dropped", func(t *testing.T) {
		t.Parallel()

		var sent atomic.Int32
		var reqCtx context.Context

		h := func(ctx *testContext) handler.Response {
			reqCtx = ctx
			require.NoError(t, event.Store(ctx, sendWelcome{sent: &sent}, nil))
			return okResponse
		}

		w := serve(httptest.NewRequest(http.MethodGet, "/", nil), h, middleware.Events[*testContext]())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(0), sent.Load())
		assert.ErrorIs(t, event.Store(reqCtx, sendWelcome{sent: &sent}, nil), event.ErrEmptyContext)
	})

	t.Run("auto publish runs events before render", func(t *testing.T) {
		t.Parallel()

		var sent atomic.Int32
		var sentBeforeRender int32

		h := func(ctx *testContext) handler.Response {
			require.NoError(t, event.Store(ctx, sendWelcome{sent: &sent}, &welcomeParams{Email: "a@example.com"}))
			return func(w http.ResponseWriter, r *http.Request) error {
				sentBeforeRender = sent.Load()
				w.WriteHeader(http.StatusCreated)
				return nil
			}
		}

		w := serve(httptest.NewRequest(http.MethodPost, "/", nil), h,
			middleware.EventsWithConfig[*testContext](middleware.EventsConfig{
				Dispatcher:  event.NewDispatcher(),
				AutoPublish: true,
			}))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int32(1), sentBeforeRender)
	})

	t.Run("auto publish failure reaches the error handler", func(t *testing.T) {
		t.Parallel()

		rendered := false
		h := func(ctx *testContext) handler.Response {
			require.NoError(t, event.Store(ctx, failingEvent{}, nil))
			return func(w http.ResponseWriter, r *http.Request) error {
				rendered = true
				return nil
			}
		}

		w := serve(httptest.NewRequest(http.MethodPost, "/", nil), h,
			middleware.EventsWithConfig[*testContext](middleware.EventsConfig{AutoPublish: true}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "mailer down")
		assert.False(t, rendered)
	})

	t.Run("request ID becomes the scope ID", func(t *testing.T) {
		t.Parallel()

		var scopeID string
		h := func(ctx *testContext) handler.Response {
			reg, err := event.FromContext(ctx)
			require.NoError(t, err)
			scopeID = reg.ID()
			return okResponse
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")

		serve(req, h,
			middleware.RequestIDWithConfig[*testContext](middleware.RequestIDConfig{UseExisting: true}),
			middleware.Events[*testContext]())

		assert.Equal(t, "req-123", scopeID)
	})

	t.Run("skip leaves the request without scope", func(t *testing.T) {
		t.Parallel()

		var storeErr error
		h := func(ctx *testContext) handler.Response {
			storeErr = event.Store(ctx, failingEvent{}, nil)
			return okResponse
		}

		serve(httptest.NewRequest(http.MethodGet, "/health", nil), h,
			middleware.EventsWithConfig[*testContext](middleware.EventsConfig{
				Skip: func(ctx handler.Context) bool { return ctx.Request().URL.Path == "/health" },
			}))

		assert.ErrorIs(t, storeErr, event.ErrEmptyContext)
	})

	t.Run("scope stays open until the response is rendered", func(t *testing.T) {
		t.Parallel()

		var sent atomic.Int32
		h := handler.Chain(func(ctx *testContext) handler.Response {
			return okResponse
		}, middleware.Events[*testContext]())

		w := httptest.NewRecorder()
		ctx := newTestContext(w, httptest.NewRequest(http.MethodGet, "/", nil))
		response := h(ctx)
		require.NotNil(t, response)

		require.NoError(t, event.Store(ctx, sendWelcome{sent: &sent}, nil))

		require.NoError(t, response(w, ctx.Request()))
		assert.ErrorIs(t, event.Store(ctx, sendWelcome{sent: &sent}, nil), event.ErrEmptyContext)
	})

	t.Run("nil response exits the scope", func(t *testing.T) {
		t.Parallel()

		var reqCtx context.Context
		h := func(ctx *testContext) handler.Response {
			reqCtx = ctx
			return nil
		}

		w := serve(httptest.NewRequest(http.MethodGet, "/", nil), h, middleware.Events[*testContext]())

		assert.Equal(t, http.StatusNoContent, w.Code)
		_, err := event.FromContext(reqCtx)
		assert.ErrorIs(t, err, event.ErrEmptyContext)
	})

	t.Run("handler panic exits the scope", func(t *testing.T) {
		t.Parallel()

		var reqCtx context.Context
		h := func(ctx *testContext) handler.Response {
			reqCtx = ctx
			panic("handler panic")
		}

		assert.Panics(t, func() {
			serve(httptest.NewRequest(http.MethodGet, "/", nil), h, middleware.Events[*testContext]())
		})

		_, err := event.FromContext(reqCtx)
		assert.ErrorIs(t, err, event.ErrEmptyContext)
	})

	t.Run("nested middleware restores the outer scope", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher()
		var outerID, innerID, afterID string

		inner := middleware.EventsWithConfig[*testContext](middleware.EventsConfig{Dispatcher: d})
		h := func(ctx *testContext) handler.Response {
			reg, err := event.FromContext(ctx)
			require.NoError(t, err)
			innerID = reg.ID()
			return okResponse
		}

		probe := func(next handler.HandlerFunc[*testContext]) handler.HandlerFunc[*testContext] {
			return func(ctx *testContext) handler.Response {
				reg, err := event.FromContext(ctx)
				require.NoError(t, err)
				outerID = reg.ID()

				response := inner(next)(ctx)
				return func(w http.ResponseWriter, r *http.Request) error {
					err := response(w, r)
					reg, regErr := event.FromContext(ctx)
					require.NoError(t, regErr)
					afterID = reg.ID()
					return err
				}
			}
		}

		serve(httptest.NewRequest(http.MethodGet, "/", nil), h,
			middleware.EventsWithConfig[*testContext](middleware.EventsConfig{Dispatcher: d}),
			probe)

		assert.NotEmpty(t, outerID)
		assert.NotEqual(t, outerID, innerID)
		assert.Equal(t, outerID, afterID)
	})

	t.Run("concurrent requests are isolated", func(t *testing.T) {
		t.Parallel()

		d := event.NewDispatcher()
		mw := middleware.EventsWithConfig[*testContext](middleware.EventsConfig{Dispatcher: d})

		h := func(ctx *testContext) handler.Response {
			var sent atomic.Int32
			if err := event.Store(ctx, sendWelcome{sent: &sent}, nil); err != nil {
				return func(w http.ResponseWriter, r *http.Request) error { return err }
			}
			reg, err := event.FromContext(ctx)
			if err != nil || reg.Len() != 1 {
				return func(w http.ResponseWriter, r *http.Request) error { return errors.New("scope leaked") }
			}
			return okResponse
		}

		codes := make(chan int, 20)
		for range 20 {
			go func() {
				codes <- serve(httptest.NewRequest(http.MethodGet, "/", nil), h, mw).Code
			}()
		}
		for range 20 {
			assert.Equal(t, http.StatusOK, <-codes)
		}
	})
}

func TestEventsHandler(t *testing.T) {
	t.Parallel()

	var sent atomic.Int32
	var scopeID string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := event.Store(ctx, sendWelcome{sent: &sent}, nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		reg, _ := event.FromContext(ctx)
		scopeID = reg.ID()
		if err := event.Publish(ctx, event.Concurrent); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	srv := httptest.NewServer(middleware.EventsHandler(nil, next))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "plain-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, int32(1), sent.Load())
	assert.Equal(t, "plain-1", scopeID)
}
