//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/philly/rolekeeper/internal/adapters/authz_adapter"
	"github.com/philly/rolekeeper/internal/adapters/postgres"
	"github.com/philly/rolekeeper/internal/adapters/queue"
	"github.com/philly/rolekeeper/internal/adapters/rest"
	"github.com/philly/rolekeeper/internal/adapters/rest/middleware"
	auditapp "github.com/philly/rolekeeper/internal/audit/application"
	auditports "github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	platformpg "github.com/philly/rolekeeper/internal/platform/postgres"
	"github.com/philly/rolekeeper/internal/platform/validator"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/ports"
	usersapp "github.com/philly/rolekeeper/internal/users/application"
)

// platformSet covers configuration, logging, metrics and the database.
var platformSet = wire.NewSet(
	logger.NewBootstrapLogger,
	LoadConfig,
	provideLoggerConfig,
	logger.NewConfiguredLogger,
	wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),
	metrics.ProviderSet,
	ConnectDatabase,
	platformpg.ProviderSet,
	provideRetryConfig,
	postgres.ProviderSet,
)

// rolesSet builds the role services on top of the platform.
var rolesSet = wire.NewSet(
	validator.ProviderSet,
	eventbus.ProviderSet,
	provideRedisConfig,
	ConnectRedis,
	provideCountsCache,
	provideAuditSink,
	provideRecorderConfig,
	auditapp.ProviderSet,
	wire.Bind(new(ports.AuditRecorder), new(*auditapp.Recorder)),
	provideBulkConfig,
	provideQueryConfig,
	application.ProviderSet,
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		platformSet,
		rolesSet,
		usersapp.ProviderSet,
		authz_adapter.ProviderSet,

		// REST handlers
		rest.ProviderSet,
		provideVersion,
		provideDatabaseChecker,
		provideCacheChecker,

		// Auth and throttling middleware
		provideJWTConfig,
		provideRateLimitConfig,
		middleware.ProviderSet,

		NewHTTPServer,
		NewApp,
	)

	return nil, nil, nil
}

// InitializeWorker creates the audit queue consumer
func InitializeWorker(ctx context.Context) (*WorkerApp, func(), error) {
	wire.Build(
		platformSet,
		wire.Bind(new(auditports.Sink), new(*postgres.AuditRepository)),
		queue.NewAuditHandler,
		provideWorkerConfig,
		queue.NewWorker,
		NewWorkerApp,
	)

	return nil, nil, nil
}

// InitializeTooling creates the services used by rolectl
func InitializeTooling(ctx context.Context) (*Tooling, func(), error) {
	wire.Build(
		platformSet,
		rolesSet,
		NewTooling,
	)

	return nil, nil, nil
}
