package event

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eventscope/core/logger"
)

// Registry holds the events stored during one scope, keyed by event type.
// Storing the same type twice keeps the later event and parameter in the position of
// the first store. A Registry is created by a Dispatcher and belongs to exactly one scope.
type Registry struct {
	id string
	d  *Dispatcher

	mu      sync.Mutex
	entries []*entry
	index   map[reflect.Type]int
	closed  bool
}

type entry struct {
	id       string
	event    any
	param    any
	desc     *descriptor
	order    int
	ordered  bool
	storedAt time.Time
}

// Entry is a read-only view of a stored event.
type Entry struct {
	ID        string
	Name      string
	Event     any
	Parameter any
	StoredAt  time.Time
}

// Group is a set of events sharing an order key, in store order.
// The unordered group has Ordered set to false.
type Group struct {
	Order   int
	Ordered bool
	Events  []Entry
}

func newRegistry(d *Dispatcher, id string) *Registry {
	return &Registry{
		id:    id,
		d:     d,
		index: make(map[reflect.Type]int),
	}
}

// ID returns the identifier of the scope that owns the registry.
func (r *Registry) ID() string {
	return r.id
}

// Store validates evt and param and records them for the next publish.
// On a validation error the registry is left unchanged.
func (r *Registry) Store(evt any, param any) error {
	desc, param, err := r.d.validator.check(evt, param, r.d.validateTags)
	if err != nil {
		r.d.logger.Debug("event rejected",
			logger.ScopeID(r.id),
			logger.EventType(TypeName(evt)),
			logger.Error(err))
		return err
	}

	order, ordered := desc.order(evt)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrEmptyContext
	}

	e := &entry{
		id:       uuid.New().String(),
		event:    evt,
		param:    param,
		desc:     desc,
		order:    order,
		ordered:  ordered,
		storedAt: time.Now(),
	}

	if i, ok := r.index[desc.typ]; ok {
		r.entries[i] = e
	} else {
		r.index[desc.typ] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	r.d.metrics.observeStore(desc.name)
	r.d.logger.Debug("event stored",
		logger.ScopeID(r.id),
		logger.EventType(desc.name),
		logger.EventID(e.id))

	return nil
}

// Len returns the number of stored events.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Has reports whether an event of the same type as evt is stored.
func (r *Registry) Has(evt any) bool {
	_, ok := r.lookup(evt)
	return ok
}

// Parameter returns the parameter stored for the type of evt.
func (r *Registry) Parameter(evt any) (any, bool) {
	e, ok := r.lookup(evt)
	if !ok {
		return nil, false
	}
	return e.param, true
}

// Entries returns the stored events in store order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.view())
	}
	return out
}

// Groups returns the order in which a Sequential publish would run the stored events.
func (r *Registry) Groups() []Group {
	r.mu.Lock()
	entries := slices.Clone(r.entries)
	r.mu.Unlock()

	plan := groupEntries(entries)
	groups := make([]Group, 0, len(plan))
	for _, g := range plan {
		out := Group{Order: g.order, Ordered: g.ordered, Events: make([]Entry, 0, len(g.entries))}
		for _, e := range g.entries {
			out.Events = append(out.Events, e.view())
		}
		groups = append(groups, out)
	}
	return groups
}

func (r *Registry) lookup(evt any) (*entry, bool) {
	if evt == nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[reflect.TypeOf(evt)]
	if !ok {
		return nil, false
	}
	return r.entries[i], true
}

// drain removes and returns all stored events.
func (r *Registry) drain() ([]*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrEmptyContext
	}

	entries := r.entries
	r.entries = nil
	clear(r.index)
	return entries, nil
}

// close discards unpublished events and rejects further use.
func (r *Registry) close() {
	r.mu.Lock()
	dropped := len(r.entries)
	r.entries = nil
	r.index = nil
	r.closed = true
	r.mu.Unlock()

	if dropped > 0 {
		r.d.metrics.observeDropped(dropped)
		r.d.logger.Debug("unpublished events dropped",
			logger.ScopeID(r.id),
			logger.Count("dropped", dropped))
	}
}

func (r *Registry) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (e *entry) view() Entry {
	return Entry{
		ID:        e.id,
		Name:      e.desc.name,
		Event:     e.event,
		Parameter: e.param,
		StoredAt:  e.storedAt,
	}
}

func (e *entry) logAttrs() []any {
	attrs := []any{logger.EventType(e.desc.name), logger.EventID(e.id)}
	if e.ordered {
		attrs = append(attrs, logger.Order(e.order))
	}
	return attrs
}
