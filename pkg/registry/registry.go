package registry

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/logging"
	"github.com/arthur-debert/herald/pkg/pubsub"
	"github.com/arthur-debert/herald/pkg/types"
)

// Options configures optional registry behavior.
type Options struct {
	// Tracer records dispatch spans. Nil disables tracing.
	Tracer trace.Tracer

	// ChangeBuffer is the per-watcher change channel capacity.
	// Zero means the default (64).
	ChangeBuffer int
}

// Registry holds event-service registrations in insertion order, which is
// also dispatch order. Bookkeeping operations are safe for concurrent
// use; Dispatch calls on one registry must be serialized by the caller.
type Registry struct {
	mu      sync.RWMutex
	records []*record
	index   map[reflect.Type]*record

	broker *pubsub.Broker[Change]
	logger zerolog.Logger
	tracer trace.Tracer
}

// New creates an empty registry with default options.
func New() *Registry {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty registry with the given options.
func NewWithOptions(opts Options) *Registry {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	broker := pubsub.NewBroker[Change]()
	if opts.ChangeBuffer > 0 {
		broker = pubsub.NewBrokerWithBuffer[Change](opts.ChangeBuffer)
	}

	return &Registry{
		index:  make(map[reflect.Type]*record),
		broker: broker,
		logger: logging.GetLogger("registry"),
		tracer: tracer,
	}
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// Snapshot returns a read-only view of the registrations in insertion
// order.
func (r *Registry) Snapshot() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.snapshot())
	}
	return out
}

// Reset removes all registrations in one step. It always succeeds and
// publishes a single reset change.
func (r *Registry) Reset() {
	r.mu.Lock()
	removed := len(r.records)
	r.records = nil
	r.index = make(map[reflect.Type]*record)
	r.mu.Unlock()

	r.logger.Debug().Int("removed", removed).Msg("Registry reset")
	r.publishChange(ChangeReset, "", "")
}

// UnregisterInstance removes the registration whose held instance is svc:
// the registered instance for eager entries, the memoized resolved
// instance for lazy ones. An unresolved lazy registration holds no
// instance yet and is never matched; it must be removed by type. Returns
// ErrNotRegistered when no entry holds svc.
func (r *Registry) UnregisterInstance(svc types.EventService) error {
	if isNilService(svc) {
		return errors.New(errors.ErrInvalidInput, "cannot unregister a nil service")
	}

	r.mu.Lock()
	rec := r.findByInstance(svc)
	if rec == nil {
		r.mu.Unlock()
		return errors.Newf(errors.ErrNotRegistered, "no registration holds instance of %T", svc)
	}
	delete(r.index, rec.key.Type)
	r.records = removeRecord(r.records, rec)
	r.mu.Unlock()

	r.logger.Debug().Str("service", rec.key.TypeName()).Msg("Service unregistered by instance")
	r.publishChange(ChangeUnregistered, rec.key.TypeName(), "")
	return nil
}

// IsRegisteredInstance reports whether some registration currently holds
// svc. Like UnregisterInstance it never matches an unresolved lazy entry
// and never triggers resolution.
func (r *Registry) IsRegisteredInstance(svc types.EventService) bool {
	if isNilService(svc) {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findByInstance(svc) != nil
}

// findByInstance locates the record holding svc. Caller holds the lock.
// Instance matching requires a comparable dynamic type; pointer services
// always are.
func (r *Registry) findByInstance(svc types.EventService) *record {
	t := reflect.TypeOf(svc)
	if t == nil || !t.Comparable() {
		return nil
	}

	for _, rec := range r.records {
		if rec.service == nil {
			continue // unresolved lazy entry
		}
		if reflect.TypeOf(rec.service) != t {
			continue
		}
		if rec.service == svc {
			return rec
		}
	}
	return nil
}

// add inserts rec at the end of the registration order. Duplicate
// registration types are rejected.
func (r *Registry) add(rec *record) error {
	r.mu.Lock()
	if _, exists := r.index[rec.key.Type]; exists {
		r.mu.Unlock()
		return errors.Newf(errors.ErrAlreadyRegistered, "type %s is already registered", rec.key.TypeName()).
			WithDetail("service", rec.key.TypeName())
	}
	r.records = append(r.records, rec)
	r.index[rec.key.Type] = rec
	r.mu.Unlock()

	r.logger.Debug().
		Str("service", rec.key.TypeName()).
		Bool("lazy", rec.lazy).
		Int("events", len(rec.key.Events)).
		Msg("Service registered")
	r.publishChange(ChangeRegistered, rec.key.TypeName(), rec.trigger)
	return nil
}

// removeType drops the registration keyed by rt.
func (r *Registry) removeType(rt reflect.Type) error {
	r.mu.Lock()
	rec, exists := r.index[rt]
	if !exists {
		r.mu.Unlock()
		return errors.Newf(errors.ErrNotRegistered, "type %s is not registered", rt.String()).
			WithDetail("service", rt.String())
	}
	delete(r.index, rt)
	r.records = removeRecord(r.records, rec)
	r.mu.Unlock()

	r.logger.Debug().Str("service", rec.key.TypeName()).Msg("Service unregistered")
	r.publishChange(ChangeUnregistered, rec.key.TypeName(), "")
	return nil
}

func (r *Registry) hasType(rt reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.index[rt]
	return exists
}

// removeRecord filters target out of records, preserving order.
func removeRecord(records []*record, target *record) []*record {
	for i, rec := range records {
		if rec == target {
			return append(records[:i], records[i+1:]...)
		}
	}
	return records
}

// isNilService catches both nil interfaces and typed nil pointers.
func isNilService(svc types.EventService) bool {
	if svc == nil {
		return true
	}
	v := reflect.ValueOf(svc)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
