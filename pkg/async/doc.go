// Package async runs error-returning functions in goroutines and waits for them.
//
// An ExecFuture is created by Exec and resolves once the function returns:
//
//	future := async.Exec(ctx, user, sendWelcomeEmail)
//
//	// Do other work...
//
//	if err := future.Await(); err != nil {
//		return err
//	}
//
// Waiting with a bound:
//
//	if err := future.AwaitWithTimeout(50 * time.Millisecond); errors.Is(err, async.ErrTimeout) {
//		log.Println("still running")
//	}
//
// CollectErrors waits for a whole batch and keeps every failure, which is what the
// event package uses for concurrent publishing:
//
//	errs := async.CollectErrors(f1, f2, f3)
//	if err := errors.Join(errs...); err != nil {
//		return err
//	}
//
// If the context is cancelled before a function starts, Exec does not call it and the
// future resolves to the context error.
package async
