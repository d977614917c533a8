package queue

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/philly/rolekeeper/internal/platform/logger"
)

// WorkerConfig collects the settings required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Concurrency int
}

// Worker wraps the asynq server consuming the audit queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger logger.Logger
}

func NewWorker(cfg WorkerConfig, audit *AuditHandler, logger logger.Logger) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueAudit: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error(ctx, "task failed", "type", task.Type(), "error", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskAuditAppend, audit.Handle)

	return &Worker{server: srv, mux: mux, logger: logger}
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return err
	}

	w.logger.Info(ctx, "worker started", "queue", QueueAudit)
	<-ctx.Done()
	w.server.Shutdown()
	w.logger.Info(ctx, "worker stopped")
	return nil
}

// NewClient constructs an asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(redisOpts)
}
