package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

var todoCols = []string{"id", "title", "link", "position", "completed", "created_at", "updated_at"}

func newPostgresStore(t *testing.T) (*repository.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewPostgresStore(sqlx.NewDb(db, "postgres"), infralogger.NewNop()), mock
}

func TestPostgresStore_Create(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)
	now := time.Now().UTC()
	id := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT $1::uuid, $2::text, $3::text, COUNT(*)::integer, false, $4::timestamptz, $4::timestamptz FROM todos`)).
		WithArgs(sqlmock.AnyArg(), "Read", "https://go.dev", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(id, "Read", "https://go.dev", 3, false, now, now))

	todo, err := store.Create(context.Background(), "Read", "https://go.dev")
	require.NoError(t, err)
	assert.Equal(t, id, todo.ID)
	assert.Equal(t, 3, todo.Position)
	assert.False(t, todo.Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY position ASC, created_at ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows(todoCols).
			AddRow(uuid.NewString(), "A", "a", 0, false, now, now).
			AddRow(uuid.NewString(), "C", "c", 2, true, now, now))

	todos, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "A", todos[0].Title)
	assert.Equal(t, 2, todos[1].Position)
	assert.True(t, todos[1].Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListEmptyIsNotNil(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(todoCols))

	todos, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestPostgresStore_SetOrder_SingleTransaction(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`FROM unnest($1::uuid[], $2::int[]) AS o(id, position)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, store.SetOrder(context.Background(), ids))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetOrder_RollsBackOnError(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE todos").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.SetOrder(context.Background(), []string{uuid.NewString()})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetOrder_SkipsMalformedIDs(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)

	// No statements expected: nothing in the batch can match a row.
	require.NoError(t, store.SetOrder(context.Background(), []string{"not-a-uuid", ""}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCompletion(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()

	tests := []struct {
		name    string
		id      string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "updated",
			id:   id,
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(`UPDATE todos SET completed = $2`)).
					WithArgs(id, true, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "no such row",
			id:   id,
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec("UPDATE todos").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name:    "malformed id",
			id:      "42",
			setup:   func(sqlmock.Sqlmock) {},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newPostgresStore(t)
			tt.setup(mock)

			err := store.UpdateCompletion(context.Background(), tt.id, true)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_Delete(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresStore(t)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM todos").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), id))
	require.ErrorIs(t, store.Delete(context.Background(), id), repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPartialOrderError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &repository.PartialOrderError{Failed: []string{"a"}, Total: 3, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "1 of 3")
}
