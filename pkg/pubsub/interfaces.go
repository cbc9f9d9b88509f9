package pubsub

import "context"

// Subscriber provides a subscription channel for published values.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan T
}

// Publisher allows publishing values to subscribers.
type Publisher[T any] interface {
	Publish(v T)
}
