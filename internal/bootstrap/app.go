// Package bootstrap handles application initialization and lifecycle management
// for the todo-manager service.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/metrics"
)

const serviceName = "todo-manager"

// version is overridden at build time with -ldflags "-X ...bootstrap.version=...".
var version = "dev"

// Start initializes and runs the todo-manager service until it receives a
// shutdown signal.
func Start() error {
	ctx := context.Background()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Profiling (both are no-ops unless enabled by env)
	profiling.StartPprofServer(log)
	profiler, err := profiling.StartPyroscope(serviceName, version, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: Storage
	store, err := SetupStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("Failed to close store", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: Event publisher (optional)
	publisher := SetupEventPublisher(ctx, cfg, log)
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Error("Failed to close event publisher", infralogger.Error(closeErr))
		}
	}()

	// Phase 5: HTTP server
	server := SetupHTTPServer(cfg, store, publisher, metrics.New(), log)

	log.Info("Starting todo-manager",
		infralogger.String("host", cfg.Server.Host),
		infralogger.Int("port", cfg.Server.Port),
		infralogger.String("storage_driver", cfg.Storage.Driver),
		infralogger.Bool("events_enabled", publisher != nil),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
