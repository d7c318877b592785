package event

import "errors"

var (
	// ErrInvalidEventType is returned when a stored value does not satisfy the event contract.
	ErrInvalidEventType = errors.New("event must implement Run(context.Context, P) error")

	// ErrInvalidParameterType is returned when a parameter is not a valid struct record
	// for the event it is stored with.
	ErrInvalidParameterType = errors.New("parameter must be a struct or a pointer to a struct")

	// ErrParameterCountMismatch is returned when an event's Run method does not take
	// exactly one parameter after the context.
	ErrParameterCountMismatch = errors.New("event Run must take exactly one parameter after the context")

	// ErrMissingRequiredParameter is returned when an event requires a parameter but none was given.
	ErrMissingRequiredParameter = errors.New("event requires a parameter")

	// ErrInvalidOrderType is returned when an event declares an Order method that is not func() int.
	ErrInvalidOrderType = errors.New("event Order must be func() int")

	// ErrEmptyContext is returned by ambient operations when no event scope is active.
	ErrEmptyContext = errors.New("event context is empty; check that the events middleware is configured")

	// ErrEventPanicked is returned when an event's Run method panics during publish.
	ErrEventPanicked = errors.New("event panicked")
)
