// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from options, and the attribute helpers give common log
// fields stable keys and nil-safe construction.
//
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithContextExtractors(event.ContextAttrs),
//	)
//
//	log.InfoContext(ctx, "events published",
//		logger.ScopeID(scopeID),
//		logger.Strategy("sequential"),
//		logger.Count("events", 3),
//		logger.Duration(time.Since(start)),
//	)
//
// Helpers that take an ID or an error return an empty slog.Attr for zero input, which
// slog handlers skip, so callers do not need nil checks:
//
//	log.Error("event failed", logger.EventType(name), logger.Error(err))
//
// Context extractors add attributes from the record's context to every line logged
// with a *Context method. The event package exports one that adds the scope ID and the
// running event's ID and type.
package logger
