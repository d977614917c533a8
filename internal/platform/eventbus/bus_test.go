package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements the logger.Logger interface for testing
type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) getErrors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.errors))
	copy(result, m.errors)
	return result
}

func drain(t *testing.T, bus *eventbus.Bus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Drain(ctx))
}

func TestBusPublishFansOut(t *testing.T) {
	bus := eventbus.NewBus(&mockLogger{})
	topic := eventbus.Topic("roles.changed")

	var mu sync.Mutex
	var received []string

	for _, name := range []string{"cache", "metrics"} {
		name := name
		bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "user-1", event.Payload)
			received = append(received, name)
			return nil
		})
	}

	bus.Publish(context.Background(), eventbus.Event{Topic: topic, Payload: "user-1"})
	drain(t, bus)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"cache", "metrics"}, received)
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	logger := &mockLogger{}
	bus := eventbus.NewBus(logger)

	bus.Publish(context.Background(), eventbus.Event{Topic: "nobody.listens", Payload: "x"})
	drain(t, bus)

	assert.Empty(t, logger.getErrors())
}

func TestBusPublishLogsHandlerError(t *testing.T) {
	logger := &mockLogger{}
	bus := eventbus.NewBus(logger)
	topic := eventbus.Topic("roles.changed")

	bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
		return errors.New("cache unavailable")
	})

	bus.Publish(context.Background(), eventbus.Event{Topic: topic})
	drain(t, bus)

	assert.Equal(t, []string{"event handler failed"}, logger.getErrors())
}

func TestBusPublishSurvivesCancelledRequest(t *testing.T) {
	bus := eventbus.NewBus(&mockLogger{})
	topic := eventbus.Topic("roles.changed")

	type key struct{}
	got := make(chan error, 1)
	bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
		assert.Equal(t, "req-1", ctx.Value(key{}))
		got <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "req-1"))
	cancel()
	bus.Publish(ctx, eventbus.Event{Topic: topic})
	drain(t, bus)

	assert.NoError(t, <-got)
}

func TestBusDrainHonoursDeadline(t *testing.T) {
	bus := eventbus.NewBus(&mockLogger{})
	topic := eventbus.Topic("slow")
	release := make(chan struct{})
	defer close(release)

	bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
		<-release
		return nil
	})
	bus.Publish(context.Background(), eventbus.Event{Topic: topic})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Drain(ctx), context.DeadlineExceeded)
}

func TestBusConcurrentPublish(t *testing.T) {
	bus := eventbus.NewBus(&mockLogger{})
	topic := eventbus.Topic("roles.changed")

	var mu sync.Mutex
	calls := 0
	bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			bus.Publish(context.Background(), eventbus.Event{Topic: topic, Payload: id})
		}(i)
	}
	wg.Wait()
	drain(t, bus)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, calls)
}
