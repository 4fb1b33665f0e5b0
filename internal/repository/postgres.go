package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

const todoColumns = `id, title, link, position, completed, created_at, updated_at`

// PostgresStore keeps todos in the todos table.
type PostgresStore struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB, log infralogger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log}
}

// Create counts and inserts in one statement.
func (s *PostgresStore) Create(ctx context.Context, title, link string) (*models.Todo, error) {
	query := `
		INSERT INTO todos (` + todoColumns + `)
		SELECT $1::uuid, $2::text, $3::text, COUNT(*)::integer, false, $4::timestamptz, $4::timestamptz FROM todos
		RETURNING ` + todoColumns

	var todo models.Todo
	now := time.Now().UTC()
	if err := s.db.QueryRowxContext(ctx, query, uuid.NewString(), title, link, now).StructScan(&todo); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return &todo, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY position ASC, created_at ASC, id ASC`

	todos := []models.Todo{}
	if err := s.db.SelectContext(ctx, &todos, query); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// SetOrder applies every position in a single transaction: either the
// whole order is stored or none of it.
func (s *PostgresStore) SetOrder(ctx context.Context, ids []string) (err error) {
	batch := assignments(ids)
	orderIDs := make([]string, 0, len(batch))
	positions := make([]int64, 0, len(batch))
	for _, a := range batch {
		// A malformed id cannot match a uuid row; skip it like any unknown id.
		if uuid.Validate(a.ID) != nil {
			continue
		}
		orderIDs = append(orderIDs, a.ID)
		positions = append(positions, int64(a.Position))
	}
	if len(orderIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback reorder", infralogger.Error(rbErr))
		}
	}()

	query := `
		UPDATE todos AS t
		SET position = o.position, updated_at = $3
		FROM unnest($1::uuid[], $2::int[]) AS o(id, position)
		WHERE t.id = o.id`

	res, err := tx.ExecContext(ctx, query, pq.Array(orderIDs), pq.Array(positions), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update positions: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}

	if n, rowsErr := res.RowsAffected(); rowsErr == nil && int(n) != len(orderIDs) {
		s.logger.Debug("Reorder skipped unknown ids",
			infralogger.Int("requested", len(orderIDs)),
			infralogger.Int64("updated", n),
		)
	}
	return nil
}

func (s *PostgresStore) UpdateCompletion(ctx context.Context, id string, completed bool) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET completed = $2, updated_at = $3 WHERE id = $1`,
		id, completed, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update completion: %w", err)
	}
	return requireOneRow(res.RowsAffected())
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireOneRow(res.RowsAffected())
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func requireOneRow(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
