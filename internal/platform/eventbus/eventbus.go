// Package eventbus is an in-process publish/subscribe bus used to fan out
// domain events (such as role changes) to side-effect handlers.
package eventbus

import "context"

// Topic is the type for event topics.
type Topic string

// Event represents a message passed on the bus.
type Event struct {
	Topic   Topic
	Payload any // The data associated with the event.
}

// Handler is a function that processes an event.
type Handler func(ctx context.Context, event Event) error
