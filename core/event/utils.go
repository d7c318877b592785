package event

import "reflect"

// typeName returns the display name of an event type for logs and spans.
//
// Unlike the registry key, the name drops the pointer: SendEmail and *SendEmail are
// different event types but both log as "mail.SendEmail". The package qualifier
// is kept so same-named types from different packages stay distinguishable.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.String()
}

// TypeName returns the display name of the event type of evt.
func TypeName(evt any) string {
	if evt == nil {
		return ""
	}
	return typeName(reflect.TypeOf(evt))
}
