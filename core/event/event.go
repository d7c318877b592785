package event

import (
	"context"
	"fmt"
	"strings"
)

// Event is the contract every event type fulfils. P is the parameter type handed to Run
// at publish time. A pointer or interface P makes the parameter optional (nil when
// nothing was stored); a struct value P makes it required.
//
// The interface exists for compile-time conformance checks:
//
//	var _ event.Event[*WelcomeParams] = SendWelcomeEmail{}
//
// Store itself accepts any value and checks the same contract at runtime.
type Event[P any] interface {
	Run(ctx context.Context, param P) error
}

// Ordered is implemented by event types that take part in ordered publishing.
// Events without an Order method form the unordered group, which always runs last.
// An Order declared on the pointer receiver only counts when the pointer is stored;
// storing the value of such a type fails with ErrInvalidOrderType.
type Ordered interface {
	Order() int
}

// Strategy selects how Publish runs the stored events.
type Strategy int

const (
	// Concurrent runs every stored event at the same time and waits for all of them.
	Concurrent Strategy = iota
	// Sequential runs events one at a time, ascending by Order, unordered events last.
	Sequential
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case Concurrent:
		return "concurrent"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// UnmarshalText parses "concurrent" or "sequential", so Strategy can be loaded from env.
func (s *Strategy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "concurrent", "at_once":
		*s = Concurrent
	case "sequential", "ordered":
		*s = Sequential
	default:
		return fmt.Errorf("unknown publish strategy %q", string(text))
	}
	return nil
}
