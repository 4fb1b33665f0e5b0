package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:blankimports // File source driver
	"github.com/jmoiron/sqlx"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

// Migrator applies the SQL files under a migrations directory to an open pool.
type Migrator struct {
	db   *sqlx.DB
	path string
	log  infralogger.Logger
}

// NewMigrator resolves path to an absolute directory so the service can be
// started from any working directory.
func NewMigrator(db *sqlx.DB, path string, log infralogger.Logger) *Migrator {
	if path == "" {
		path = "migrations"
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Migrator{db: db, path: path, log: log}
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	// The driver must not own the pool: closing it would close the store's DB.
	driver, err := postgres.WithInstance(m.db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	mig, err := migrate.NewWithDatabaseInstance("file://"+m.path, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return mig, nil
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	mig, err := m.instance()
	if err != nil {
		return err
	}

	if err = mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("No pending migrations", infralogger.String("migrations_path", m.path))
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	m.log.Info("Migrations applied", infralogger.String("migrations_path", m.path))
	return nil
}

// Down rolls back steps migrations; steps below one means one.
func (m *Migrator) Down(steps int) error {
	mig, err := m.instance()
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = 1
	}

	if err = mig.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("No migrations to roll back", infralogger.String("migrations_path", m.path))
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", err)
	}

	m.log.Info("Migrations rolled back",
		infralogger.String("migrations_path", m.path),
		infralogger.Int("steps", steps),
	)
	return nil
}

// Version reports the applied version. A fresh database reports 0.
func (m *Migrator) Version() (uint, bool, error) {
	mig, err := m.instance()
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}
