// Package repository persists todos. Store has three drivers: PostgreSQL,
// Elasticsearch and an in-process map.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// ErrNotFound is returned when an id matches no todo.
var ErrNotFound = errors.New("todo not found")

// Store is the server side item store.
type Store interface {
	// Create stores a new incomplete todo at position = current count.
	Create(ctx context.Context, title, link string) (*models.Todo, error)
	// List returns every todo ordered by position, then creation time, then id.
	List(ctx context.Context) ([]models.Todo, error)
	// SetOrder gives each id the position of its index in ids. Ids that
	// match no todo are skipped.
	SetOrder(ctx context.Context, ids []string) error
	UpdateCompletion(ctx context.Context, id string, completed bool) error
	// Delete removes one todo. Other positions are left as they are.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// PartialOrderError reports a reorder in which some position writes
// failed. The writes that succeeded are not undone.
type PartialOrderError struct {
	Failed []string
	Total  int
	Err    error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("reorder: %d of %d position updates failed (%s): %v",
		len(e.Failed), e.Total, strings.Join(e.Failed, ", "), e.Err)
}

func (e *PartialOrderError) Unwrap() error {
	return e.Err
}

// assignment is one position write of a reorder.
type assignment struct {
	ID       string
	Position int
}

// assignments maps ids to their index. When an id repeats, its last index
// wins, as it would if the writes were applied in order. Blank ids are
// dropped.
func assignments(ids []string) []assignment {
	last := make(map[string]int, len(ids))
	for i, id := range ids {
		if id != "" {
			last[id] = i
		}
	}

	out := make([]assignment, 0, len(last))
	for id, pos := range last {
		out = append(out, assignment{ID: id, Position: pos})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// sortTodos orders todos the way List must return them.
func sortTodos(todos []models.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
