// Package types defines the core types shared across herald.
// This includes the Event value type, the EventService interface that
// registered services implement, and the ServiceFactory used for lazy
// registrations.
package types
