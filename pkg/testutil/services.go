package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/arthur-debert/herald/pkg/types"
)

// ErrHandlerFailure is the default error a RecordingService returns for
// its FailOn event.
var ErrHandlerFailure = errors.New("handler failure")

// Journal records handler invocations across services so tests can assert
// cross-service ordering. Entries have the form "name:event".
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Append adds one invocation entry.
func (j *Journal) Append(name string, evt types.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, name+":"+evt.String())
}

// Entries returns a copy of the recorded entries in order.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// RecordingService is an EventService double that records every event it
// handles, in order.
type RecordingService struct {
	// Name distinguishes services sharing a Journal.
	Name string

	// Journal, when set, receives a "name:event" entry per invocation.
	Journal *Journal

	// OnHandle, when set, runs inside HandleEvent after recording. It
	// lets tests cancel contexts or re-enter the registry mid-pass.
	OnHandle func(ctx context.Context, evt types.Event)

	// FailOn makes HandleEvent return an error for this event.
	FailOn types.Event

	// Err overrides the error returned for FailOn events.
	// Defaults to ErrHandlerFailure.
	Err error

	mu     sync.Mutex
	events []types.Event
}

// HandleEvent implements types.EventService.
func (s *RecordingService) HandleEvent(ctx context.Context, evt types.Event) error {
	s.mu.Lock()
	s.events = append(s.events, evt)
	s.mu.Unlock()

	if s.Journal != nil {
		s.Journal.Append(s.Name, evt)
	}
	if s.OnHandle != nil {
		s.OnHandle(ctx, evt)
	}
	if s.FailOn != "" && evt == s.FailOn {
		if s.Err != nil {
			return s.Err
		}
		return ErrHandlerFailure
	}
	return nil
}

// Events returns a copy of the events handled so far, in order.
func (s *RecordingService) Events() []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns how many events the service has handled.
func (s *RecordingService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
