package seeder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/philly/rolekeeper/internal/platform/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements the logger.Logger interface for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any) {}

type recordingSeeder struct {
	name string
	err  error
	runs *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Seed(ctx context.Context) error {
	*s.runs = append(*s.runs, s.name)
	return s.err
}

func TestOrchestrator_RunsInOrder(t *testing.T) {
	var runs []string
	o := seeder.NewOrchestrator(&mockLogger{}, []seeder.Seeder{
		recordingSeeder{name: "first", runs: &runs},
		recordingSeeder{name: "second", runs: &runs},
	})

	require.NoError(t, o.RunAll(context.Background()))
	assert.Equal(t, []string{"first", "second"}, runs)
}

func TestOrchestrator_StopsAtFirstFailure(t *testing.T) {
	var runs []string
	boom := errors.New("boom")
	o := seeder.NewOrchestrator(&mockLogger{}, []seeder.Seeder{
		recordingSeeder{name: "first", err: boom, runs: &runs},
		recordingSeeder{name: "second", runs: &runs},
	})

	err := o.RunAll(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "seeder first failed")
	assert.Equal(t, []string{"first"}, runs)
}
