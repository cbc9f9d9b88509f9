package registry

import (
	"reflect"

	"github.com/arthur-debert/herald/pkg/types"
)

// Key identifies a registration: the Go type the service was registered
// under plus the events it declared. Registry identity is the type alone;
// the event list travels with the key for introspection and dispatch
// filtering.
type Key struct {
	Type   reflect.Type
	Events []types.Event
}

// TypeName returns the registration type's name (e.g. "*demo.CacheService").
func (k Key) TypeName() string {
	if k.Type == nil {
		return "<nil>"
	}
	return k.Type.String()
}

// HasEvent reports whether evt is in the key's declared event list.
func (k Key) HasEvent(evt types.Event) bool {
	for _, e := range k.Events {
		if e == evt {
			return true
		}
	}
	return false
}

// record is a single registry entry. Exactly one of the two variants is
// populated at registration time: eager entries carry a service instance,
// lazy entries carry a factory plus a trigger event. Resolving a lazy
// entry fills service and flips resolved; the factory is never consulted
// again.
type record struct {
	key Key

	// eager: the registered instance; lazy: the memoized resolved instance
	service types.EventService

	// lazy variant only
	factory  types.ServiceFactory
	trigger  types.Event
	lazy     bool
	resolved bool
}

// Registration is a read-only snapshot of one registry entry, in the form
// the CLI and tests consume.
type Registration struct {
	Key      Key
	Lazy     bool
	Resolved bool

	// Trigger is the materialization event for lazy registrations; empty
	// for eager ones.
	Trigger types.Event
}

// snapshot converts the record to its public view. Caller holds the
// registry lock.
func (rec *record) snapshot() Registration {
	events := make([]types.Event, len(rec.key.Events))
	copy(events, rec.key.Events)

	return Registration{
		Key:      Key{Type: rec.key.Type, Events: events},
		Lazy:     rec.lazy,
		Resolved: rec.resolved,
		Trigger:  rec.trigger,
	}
}
