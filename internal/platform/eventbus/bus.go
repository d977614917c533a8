package eventbus

import (
	"context"
	"sync"

	"github.com/philly/rolekeeper/internal/platform/logger"
)

// Bus manages subscriptions and event dispatching.
type Bus struct {
	subscriptions map[Topic][]Handler
	mu            sync.RWMutex // Protects the subscriptions map
	inflight      sync.WaitGroup
	logger        logger.Logger
}

// NewBus creates a new event bus.
func NewBus(logger logger.Logger) *Bus {
	return &Bus{
		subscriptions: make(map[Topic][]Handler),
		logger:        logger,
	}
}

// Subscribe adds a handler for a specific topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions[topic] = append(b.subscriptions[topic], handler)
}

// Publish sends an event to all subscribers of a topic (Fire-and-Forget).
// Handlers outlive the publishing request, so they receive a context that
// keeps its values but is never cancelled by the caller.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.subscriptions[event.Topic]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			if err := h(detached, event); err != nil {
				b.logger.Error(detached, "event handler failed", "topic", event.Topic, "error", err)
			}
		}(handler)
	}
}

// Drain blocks until every handler started by Publish has returned or ctx is
// done.
func (b *Bus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
