package event

import "context"

type listenerConfig struct {
	strategy Strategy
}

// ListenerOption configures Listen and ListenFunc.
type ListenerOption func(*listenerConfig)

// RunAtOnce selects Concurrent (true, the default) or Sequential (false) publishing.
func RunAtOnce(atOnce bool) ListenerOption {
	return func(c *listenerConfig) {
		if atOnce {
			c.strategy = Concurrent
		} else {
			c.strategy = Sequential
		}
	}
}

// WithStrategy selects the publish strategy.
func WithStrategy(s Strategy) ListenerOption {
	return func(c *listenerConfig) {
		c.strategy = s
	}
}

func newListenerConfig(opts []ListenerOption) listenerConfig {
	cfg := listenerConfig{strategy: Concurrent}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Listen wraps fn so that the ambient registry is published after fn succeeds.
// If fn fails its error is returned unchanged and nothing is published; events it
// stored stay in the registry until a later publish or the end of the scope.
// If publishing fails, the zero T and the publish error are returned.
//
// Example:
//
//	createUser := event.Listen(func(ctx context.Context) (*User, error) {
//	    user, err := repo.Create(ctx, input)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return user, event.Store(ctx, SendWelcomeEmail{}, &WelcomeParams{Email: user.Email})
//	}, event.RunAtOnce(false))
func Listen[T any](fn func(ctx context.Context) (T, error), opts ...ListenerOption) func(ctx context.Context) (T, error) {
	cfg := newListenerConfig(opts)

	return func(ctx context.Context) (T, error) {
		result, err := fn(ctx)
		if err != nil {
			return result, err
		}

		if err := Publish(ctx, cfg.strategy); err != nil {
			var zero T
			return zero, err
		}

		return result, nil
	}
}

// ListenFunc is Listen for functions that only return an error.
func ListenFunc(fn func(ctx context.Context) error, opts ...ListenerOption) func(ctx context.Context) error {
	wrapped := Listen(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)

	return func(ctx context.Context) error {
		_, err := wrapped(ctx)
		return err
	}
}
