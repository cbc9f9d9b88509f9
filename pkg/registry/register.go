package registry

import (
	"fmt"
	"reflect"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/types"
)

// typeOf resolves the registration type for T without needing an instance.
func typeOf[T types.EventService]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register adds svc under registration type T for the given events.
// The event list must be non-empty; at most one registration may exist per
// type. Registering the same instance under two distinct types creates two
// independent registrations.
func Register[T types.EventService](r *Registry, svc T, events ...types.Event) error {
	if isNilService(svc) {
		return errors.Newf(errors.ErrInvalidRegistration, "cannot register a nil service as %s", typeOf[T]().String())
	}
	if len(events) == 0 {
		return errors.Newf(errors.ErrInvalidRegistration, "registration for %s declares no events", typeOf[T]().String())
	}

	return r.add(&record{
		key:     Key{Type: typeOf[T](), Events: cloneEvents(events)},
		service: svc,
	})
}

// RegisterLazy adds a lazy registration under type T: factory is invoked
// at most once, when trigger first fires, and the resolved instance then
// handles the registration's remaining events. The trigger must be a
// member of the event list; a registration whose trigger could never fire
// for it would be dead on arrival, so it is rejected up front.
func RegisterLazy[T types.EventService](r *Registry, factory func() T, trigger types.Event, events ...types.Event) error {
	rt := typeOf[T]()

	if factory == nil {
		return errors.Newf(errors.ErrInvalidRegistration, "cannot register a nil factory as %s", rt.String())
	}
	if len(events) == 0 {
		return errors.Newf(errors.ErrInvalidRegistration, "registration for %s declares no events", rt.String())
	}

	key := Key{Type: rt, Events: cloneEvents(events)}
	if !key.HasEvent(trigger) {
		return errors.Newf(errors.ErrInvalidRegistration,
			"trigger %q is not in the event list for %s", trigger, rt.String()).
			WithDetail("trigger", trigger.String())
	}

	return r.add(&record{
		key:     key,
		factory: func() types.EventService { return factory() },
		trigger: trigger,
		lazy:    true,
	})
}

// Unregister removes the registration for type T.
// Returns ErrNotRegistered if T has no active registration.
func Unregister[T types.EventService](r *Registry) error {
	return r.removeType(typeOf[T]())
}

// IsRegistered reports whether type T currently has a registration.
// It never resolves a lazy registration.
func IsRegistered[T types.EventService](r *Registry) bool {
	return r.hasType(typeOf[T]())
}

// MustRegister registers an instance and panics if registration fails.
// This is useful for init-time wiring where a failure is a programming error.
func MustRegister[T types.EventService](r *Registry, svc T, events ...types.Event) {
	if err := Register(r, svc, events...); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", typeOf[T]().String(), err))
	}
}

// MustRegisterLazy registers a factory and panics if registration fails.
func MustRegisterLazy[T types.EventService](r *Registry, factory func() T, trigger types.Event, events ...types.Event) {
	if err := RegisterLazy(r, factory, trigger, events...); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", typeOf[T]().String(), err))
	}
}

func cloneEvents(events []types.Event) []types.Event {
	return append([]types.Event(nil), events...)
}
