package types

import "context"

// EventService is implemented by services that want to be notified of
// lifecycle events. A service is registered against the list of events it
// handles; the registry invokes HandleEvent once per dispatched event that
// appears in that list.
type EventService interface {
	// HandleEvent reacts to a single event. The registry waits for it to
	// return before moving on to the next registered service; returning a
	// non-nil error aborts the dispatch pass.
	HandleEvent(ctx context.Context, evt Event) error
}

// ServiceFactory produces an EventService on demand. Lazy registrations
// hold a factory instead of an instance; the registry invokes it at most
// once, when the registration's trigger event first fires.
type ServiceFactory func() EventService
