package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts.
// Values stored with SetValue must be visible through Value, and Request must return
// the request carrying them, so request-scoped state such as the event registry
// reaches the response and any code that receives the context.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
