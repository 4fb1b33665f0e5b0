package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

// ServerBuilder assembles a Server step by step.
type ServerBuilder struct {
	config       *Config
	logger       logger.Logger
	setupRoutes  func(*gin.Engine)
	middleware   []gin.HandlerFunc
	healthChecks map[string]HealthChecker
}

// NewServerBuilder starts a builder for serviceName listening on port.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config:       NewConfig(serviceName, port),
		healthChecks: make(map[string]HealthChecker),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

// WithHost binds the server to host instead of every interface.
func (b *ServerBuilder) WithHost(host string) *ServerBuilder {
	b.config.Host = host
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

// WithCORSOrigins restricts CORS to origins. Empty means every origin.
func (b *ServerBuilder) WithCORSOrigins(origins []string) *ServerBuilder {
	if len(origins) > 0 {
		b.config.CORS.Enabled = true
		b.config.CORS.AllowedOrigins = origins
	}
	return b
}

// WithTimeouts overrides the non-zero timeouts given.
func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	if read > 0 {
		b.config.ReadTimeout = read
	}
	if write > 0 {
		b.config.WriteTimeout = write
	}
	if idle > 0 {
		b.config.IdleTimeout = idle
	}
	return b
}

// WithMiddleware appends handlers that run after the standard chain and
// before any route.
func (b *ServerBuilder) WithMiddleware(handlers ...gin.HandlerFunc) *ServerBuilder {
	b.middleware = append(b.middleware, handlers...)
	return b
}

// WithHealthCheck registers a named check reported by GET /health.
func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.healthChecks[name] = checker
	return b
}

func (b *ServerBuilder) WithRoutes(setupRoutes func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setupRoutes
	return b
}

// Build returns the configured Server.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{Level: "info", Development: b.config.Debug})
	}

	return NewServer(b.config, b.logger, func(router *gin.Engine) {
		router.Use(b.middleware...)
		RegisterHealthRoutes(router, HealthOptions{
			ServiceName:    b.config.ServiceName,
			ServiceVersion: b.config.ServiceVersion,
			Checks:         b.healthChecks,
		})
		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	})
}
