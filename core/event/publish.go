package event

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/eventscope/core/logger"
	"github.com/dmitrymomot/eventscope/pkg/async"
)

// Publish runs every stored event with the given strategy and empties the registry.
// The registry is empty afterwards whether or not an event failed, so failed events
// are never delivered twice.
//
// Concurrent waits for all events and returns every failure: a single failure is
// returned as is, several are combined with errors.Join. Sequential stops at the first
// failure and returns it as is.
func (r *Registry) Publish(ctx context.Context, strategy Strategy) error {
	entries, err := r.drain()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	if r.d.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.d.publishTimeout)
		defer cancel()
	}

	ctx, span := r.d.startPublishSpan(ctx, r.id, strategy, len(entries))
	start := time.Now()

	r.d.logger.DebugContext(ctx, "publishing events",
		logger.ScopeID(r.id),
		logger.Strategy(strategy.String()),
		logger.Count("events", len(entries)))

	switch strategy {
	case Sequential:
		err = r.publishSequential(ctx, entries)
	default:
		err = r.publishConcurrent(ctx, entries)
	}

	endSpan(span, err)
	r.d.metrics.observePublish(strategy, err)

	if err != nil {
		r.d.logger.ErrorContext(ctx, "publish failed",
			logger.ScopeID(r.id),
			logger.Strategy(strategy.String()),
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return err
	}

	r.d.logger.InfoContext(ctx, "events published",
		logger.ScopeID(r.id),
		logger.Strategy(strategy.String()),
		logger.Count("events", len(entries)),
		logger.Duration(time.Since(start)))

	return nil
}

// publishSequential runs one group after another and one event after another.
func (r *Registry) publishSequential(ctx context.Context, entries []*entry) error {
	for _, g := range groupEntries(entries) {
		for _, e := range g.entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.runEntry(ctx, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// publishConcurrent starts every event at once, bounded by the dispatcher's
// concurrency limit, and waits for all of them.
func (r *Registry) publishConcurrent(ctx context.Context, entries []*entry) error {
	var sem *semaphore.Weighted
	if r.d.maxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(r.d.maxConcurrency))
	}

	var errs []error
	futures := make([]*async.ExecFuture, 0, len(entries))

	for _, e := range entries {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				errs = append(errs, err)
				break
			}
		}

		futures = append(futures, async.Exec(ctx, e, func(ctx context.Context, e *entry) error {
			if sem != nil {
				defer sem.Release(1)
			}
			return r.runEntry(ctx, e)
		}))
	}

	errs = append(async.CollectErrors(futures...), errs...)
	return joinErrors(errs)
}

// runEntry runs a single event with its metadata on the context and turns a panic
// into ErrEventPanicked.
func (r *Registry) runEntry(ctx context.Context, e *entry) (err error) {
	start := time.Now()
	ctx = WithStartProcessingTime(withEntryMeta(ctx, r.id, e), start)
	ctx, span := r.d.startRunSpan(ctx, e)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrEventPanicked, e.desc.name, rec)
		}

		endSpan(span, err)
		r.d.metrics.observeRun(e.desc.name, err, time.Since(start))

		attrs := append(e.logAttrs(), logger.ScopeID(r.id), logger.Duration(time.Since(start)))
		if err != nil {
			r.d.logger.ErrorContext(ctx, "event failed", append(attrs, logger.Error(err))...)
		} else {
			r.d.logger.DebugContext(ctx, "event completed", attrs...)
		}
	}()

	return e.desc.run(ctx, e.event, e.param)
}

type group struct {
	order   int
	ordered bool
	entries []*entry
}

// groupEntries partitions entries by order key: keyed groups ascending, each in
// store order, then the unordered group.
func groupEntries(entries []*entry) []group {
	var (
		keyed     []group
		unordered []*entry
		positions = make(map[int]int)
	)

	for _, e := range entries {
		if !e.ordered {
			unordered = append(unordered, e)
			continue
		}
		i, ok := positions[e.order]
		if !ok {
			i = len(keyed)
			positions[e.order] = i
			keyed = append(keyed, group{order: e.order, ordered: true})
		}
		keyed[i].entries = append(keyed[i].entries, e)
	}

	slices.SortFunc(keyed, func(a, b group) int {
		return cmp.Compare(a.order, b.order)
	})

	if len(unordered) > 0 {
		keyed = append(keyed, group{entries: unordered})
	}
	return keyed
}

// joinErrors returns nil, the only error, or all errors joined.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
