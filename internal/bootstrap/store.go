package bootstrap

import (
	"context"
	"fmt"

	infraes "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/config"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/database"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

// SetupStore opens the store selected by storage.driver.
func SetupStore(ctx context.Context, cfg *config.Config, log infralogger.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return setupPostgresStore(ctx, cfg, log)
	case config.DriverElasticsearch:
		return setupDocumentStore(ctx, cfg, log)
	case config.DriverMemory:
		log.Warn("Using in-memory storage, todos are lost on restart")
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func setupPostgresStore(ctx context.Context, cfg *config.Config, log infralogger.Logger) (repository.Store, error) {
	db, err := database.New(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if migrateErr := database.NewMigrator(db, cfg.Database.MigrationsPath, log).Up(); migrateErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("auto migrate: %w", migrateErr)
		}
	}

	return repository.NewPostgresStore(db, log), nil
}

func setupDocumentStore(ctx context.Context, cfg *config.Config, log infralogger.Logger) (repository.Store, error) {
	esCfg := infraes.Config{
		URL:        cfg.Elasticsearch.URL,
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	}

	client, err := infraes.NewClient(ctx, esCfg, log)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connection: %w", err)
	}

	store := repository.NewDocumentStore(client, repository.DocumentStoreConfig{
		Index:            cfg.Elasticsearch.Index,
		OrderConcurrency: cfg.Elasticsearch.OrderConcurrency,
		ListPageSize:     cfg.Elasticsearch.ListPageSize,
		Ping:             esCfg,
	}, log)

	if indexErr := store.EnsureIndex(ctx); indexErr != nil {
		return nil, fmt.Errorf("ensure index: %w", indexErr)
	}
	return store, nil
}
