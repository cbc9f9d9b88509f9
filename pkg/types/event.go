package types

// Event identifies a lifecycle moment an application dispatches, such as
// startup, sign-in, or shutdown. Events are plain comparable values; herald
// ships no event constants of its own. Hosts declare the vocabulary that
// makes sense for their application:
//
//	const (
//		EventStartup  types.Event = "app.startup"
//		EventShutdown types.Event = "app.shutdown"
//	)
type Event string

// String returns the event name.
func (e Event) String() string {
	return string(e)
}
