package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"

	infracontext "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/context"
	infragin "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/api"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/config"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/events"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/handlers"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/metrics"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	store repository.Store,
	publisher *events.Publisher,
	m *metrics.Metrics,
	log infralogger.Logger,
) *infragin.Server {
	todoHandler := handlers.NewTodoHandler(store, publisher, m, log)

	builder := infragin.NewServerBuilder(serviceName, cfg.Server.Port).
		WithLogger(log).
		WithHost(cfg.Server.Host).
		WithDebug(cfg.Debug).
		WithVersion(version).
		WithCORSOrigins(cfg.Server.CORSOrigins).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout).
		WithMiddleware(m.Middleware()).
		WithHealthCheck("storage", infragin.DatabaseHealthChecker(pingWith(store.Ping))).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, todoHandler, m)
		})

	if publisher != nil {
		builder = builder.WithHealthCheck("redis", infragin.RedisHealthChecker(pingWith(publisher.Ping)))
	}

	return builder.Build()
}

func pingWith(ping func(context.Context) error) func() error {
	return func() error {
		ctx, cancel := infracontext.WithPingTimeout(context.Background())
		defer cancel()
		return ping(ctx)
	}
}
