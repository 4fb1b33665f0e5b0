package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

// runStoreContract exercises the behavior every Store driver shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Helper()

	ctx := context.Background()

	seed := func(t *testing.T, s repository.Store, titles ...string) []*models.Todo {
		t.Helper()
		out := make([]*models.Todo, 0, len(titles))
		for _, title := range titles {
			todo, err := s.Create(ctx, title, "https://example.com/"+title)
			require.NoError(t, err)
			out = append(out, todo)
		}
		return out
	}

	titlesAndPositions := func(t *testing.T, s repository.Store) ([]string, []int) {
		t.Helper()
		todos, err := s.List(ctx)
		require.NoError(t, err)
		titles := make([]string, len(todos))
		positions := make([]int, len(todos))
		for i, todo := range todos {
			titles[i] = todo.Title
			positions[i] = todo.Position
		}
		return titles, positions
	}

	t.Run("create assigns count as position", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B", "C")

		for i, todo := range todos {
			assert.Equal(t, i, todo.Position)
			assert.False(t, todo.Completed)
			assert.NotEmpty(t, todo.ID)
		}

		titles, positions := titlesAndPositions(t, s)
		assert.Equal(t, []string{"A", "B", "C"}, titles)
		assert.Equal(t, []int{0, 1, 2}, positions)
	})

	t.Run("set order persists the client's sequence", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B", "C")
		a, b, c := todos[0], todos[1], todos[2]

		require.NoError(t, s.SetOrder(ctx, []string{c.ID, a.ID, b.ID}))

		titles, positions := titlesAndPositions(t, s)
		assert.Equal(t, []string{"C", "A", "B"}, titles)
		assert.Equal(t, []int{0, 1, 2}, positions)
	})

	t.Run("set order is idempotent", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B", "C")
		order := []string{todos[1].ID, todos[2].ID, todos[0].ID}

		require.NoError(t, s.SetOrder(ctx, order))
		first, _ := titlesAndPositions(t, s)
		require.NoError(t, s.SetOrder(ctx, order))
		second, positions := titlesAndPositions(t, s)

		assert.Equal(t, first, second)
		assert.Equal(t, []string{"B", "C", "A"}, second)
		assert.Equal(t, []int{0, 1, 2}, positions)
	})

	t.Run("set order ignores unknown ids", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B")

		unknown := "00000000-0000-4000-8000-000000000000"
		require.NoError(t, s.SetOrder(ctx, []string{todos[1].ID, unknown, todos[0].ID}))

		titles, positions := titlesAndPositions(t, s)
		assert.Equal(t, []string{"B", "A"}, titles)
		assert.Equal(t, []int{0, 2}, positions)
	})

	t.Run("delete leaves a gap", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B", "C")

		require.NoError(t, s.Delete(ctx, todos[1].ID))

		titles, positions := titlesAndPositions(t, s)
		assert.Equal(t, []string{"A", "C"}, titles)
		assert.Equal(t, []int{0, 2}, positions)
	})

	t.Run("create after delete reuses a position", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B", "C")
		require.NoError(t, s.Delete(ctx, todos[0].ID))

		d, err := s.Create(ctx, "D", "https://example.com/D")
		require.NoError(t, err)
		assert.Equal(t, 2, d.Position, "position is the count, not max+1")

		titles, positions := titlesAndPositions(t, s)
		assert.Equal(t, []string{"B", "C", "D"}, titles)
		assert.Equal(t, []int{1, 2, 2}, positions)
	})

	t.Run("update completion touches only the target", func(t *testing.T) {
		s := newStore(t)
		todos := seed(t, s, "A", "B")

		require.NoError(t, s.UpdateCompletion(ctx, todos[0].ID, true))

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].Completed)
		assert.False(t, list[1].Completed)
		assert.Equal(t, "A", list[0].Title)
		assert.Equal(t, 0, list[0].Position)

		require.NoError(t, s.UpdateCompletion(ctx, todos[0].ID, false))
		list, err = s.List(ctx)
		require.NoError(t, err)
		assert.False(t, list[0].Completed)
	})

	t.Run("missing ids report not found", func(t *testing.T) {
		s := newStore(t)
		missing := "00000000-0000-4000-8000-000000000001"

		err := s.UpdateCompletion(ctx, missing, true)
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)

		err = s.Delete(ctx, missing)
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
	})

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)
		todos, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
		assert.NoError(t, s.Ping(ctx))
	})
}
