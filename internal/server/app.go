package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/queue"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/seeder"
	"github.com/philly/rolekeeper/internal/roles/application"
	rolesseeder "github.com/philly/rolekeeper/internal/roles/seeder"
)

const shutdownTimeout = 10 * time.Second

// App is the HTTP API process.
type App struct {
	server *http.Server
	bus    *eventbus.Bus
	log    logger.Logger
}

func NewApp(server *http.Server, bus *eventbus.Bus, log logger.Logger) *App {
	return &App{
		server: server,
		bus:    bus,
		log:    log,
	}
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests and event
// handlers.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "starting server", "addr", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		a.log.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
		if err := a.bus.Drain(shutdownCtx); err != nil {
			a.log.Warn(shutdownCtx, "event handlers still running at shutdown", "error", err)
		}
	}

	a.log.Info(context.Background(), "server stopped")
	return nil
}

// WorkerApp is the audit queue consumer process.
type WorkerApp struct {
	worker *queue.Worker
	log    logger.Logger
}

func NewWorkerApp(worker *queue.Worker, log logger.Logger) *WorkerApp {
	return &WorkerApp{worker: worker, log: log}
}

// Run consumes tasks until SIGINT/SIGTERM.
func (w *WorkerApp) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return w.worker.Run(ctx)
}

// Tooling exposes the services the rolectl commands drive directly.
type Tooling struct {
	Assignments *application.AssignmentService
	Queries     *application.QueryService
	Bus         *eventbus.Bus
	Log         logger.Logger
}

func NewTooling(assignments *application.AssignmentService, queries *application.QueryService, bus *eventbus.Bus, log logger.Logger) *Tooling {
	return &Tooling{
		Assignments: assignments,
		Queries:     queries,
		Bus:         bus,
		Log:         log,
	}
}

// Seed bootstraps ownerID as the first owner. Running it again is a no-op.
func (t *Tooling) Seed(ctx context.Context, ownerID uuid.UUID) error {
	orchestrator := seeder.NewOrchestrator(t.Log, []seeder.Seeder{
		rolesseeder.NewOwnerSeeder(t.Assignments, ownerID, t.Log),
	})
	return orchestrator.RunAll(ctx)
}

// Close waits for event handlers started by the commands.
func (t *Tooling) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return t.Bus.Drain(ctx)
}
