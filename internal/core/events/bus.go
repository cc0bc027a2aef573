// Package events provides a typed in-process event bus. It replaces
// fire-and-forget UI notifications with explicit subscriptions, so views and
// background consumers can re-query after domain changes without coupling to
// any runtime.
package events

import (
	"context"
	"sync"

	"tenderdesk/pkg/logger"
)

// Topic names a class of domain events.
type Topic string

const (
	// TopicTenderItemsChanged fires after tender line items are created,
	// updated, refreshed, or deleted.
	TopicTenderItemsChanged Topic = "tender.items.changed"

	// TopicMaterialChanged fires after a source material catalog entry is
	// created or mutated.
	TopicMaterialChanged Topic = "material.changed"
)

// TenderItemsChanged carries the owning tender of the affected line items.
type TenderItemsChanged struct {
	TenderRef string
	ItemRefs  []string
}

// MaterialChanged carries the identity of the mutated source material.
type MaterialChanged struct {
	MaterialKind string
	MaterialRef  string
}

// Handler consumes a published event. Handlers run synchronously on the
// publisher's goroutine; long-running work belongs behind the outbox relay.
type Handler func(ctx context.Context, payload any)

// Bus is a minimal publish/subscribe dispatcher. Safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for the topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers payload to every handler of the topic. A panicking
// handler is recovered and logged; remaining handlers still run.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[topic]))
	copy(hs, b.handlers[topic])
	b.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(ctx, "event handler panicked",
						"topic", string(topic),
						"panic", r)
				}
			}()
			h(ctx, payload)
		}()
	}
}
