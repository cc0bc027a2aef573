package events

import "context"

// Outbox enqueues an event for durable, transactional delivery. When called
// inside a database transaction the write joins it, so the event is published
// if and only if the business write commits. The relay worker drains the
// queue and re-publishes on the in-process bus.
type Outbox interface {
	Enqueue(ctx context.Context, topic Topic, payload any) error
}
