package registry

import (
	"context"
	"time"

	"github.com/arthur-debert/herald/pkg/types"
)

// ChangeKind classifies a registry change notification.
type ChangeKind string

const (
	// ChangeRegistered is published when a service is registered.
	ChangeRegistered ChangeKind = "registered"

	// ChangeUnregistered is published when a registration is removed.
	ChangeUnregistered ChangeKind = "unregistered"

	// ChangeReset is published once when the registry is cleared.
	ChangeReset ChangeKind = "reset"

	// ChangeResolved is published when a lazy registration's factory runs
	// and its instance is memoized.
	ChangeResolved ChangeKind = "resolved"

	// ChangeDispatched is published once per completed dispatch pass.
	ChangeDispatched ChangeKind = "dispatched"
)

// Change describes a single registry change. Type is the registration
// type's name and is empty for changes that concern the whole registry
// (reset, dispatched). Event carries the event involved when meaningful:
// the trigger for lazy registrations and resolutions, the dispatched
// event for dispatch passes.
type Change struct {
	Kind  ChangeKind
	Type  string
	Event types.Event
	At    time.Time
}

// Watch returns a channel streaming registry changes. The channel is
// buffered and delivery is best-effort: watchers that fall behind miss
// changes rather than blocking registry operations. The channel closes
// when ctx is cancelled or the registry is closed.
func (r *Registry) Watch(ctx context.Context) <-chan Change {
	return r.broker.Subscribe(ctx)
}

// Close shuts down change delivery and closes all watcher channels. It is
// idempotent and does not affect registrations or dispatch; it only stops
// notifications.
func (r *Registry) Close() {
	r.broker.Close()
}

func (r *Registry) publishChange(kind ChangeKind, typeName string, evt types.Event) {
	r.broker.Publish(Change{
		Kind:  kind,
		Type:  typeName,
		Event: evt,
		At:    time.Now(),
	})
}
