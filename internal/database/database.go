package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver

	"github.com/jonesrussell/north-cloud/todo-manager/internal/config"
	infracontext "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

// New opens the PostgreSQL pool described by cfg and verifies it with a ping.
func New(ctx context.Context, cfg *config.DatabaseConfig, log infralogger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.DBName),
		infralogger.Bool("from_url", cfg.URL != ""),
	)

	return db, nil
}
