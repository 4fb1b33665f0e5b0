package board

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// ErrIndexOutOfRange is returned by Move for a source or destination
// outside the list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Move removes the item at source and inserts it at destination of the
// shortened list. The input is not modified.
func Move(items []models.Todo, source, destination int) ([]models.Todo, error) {
	if source < 0 || source >= len(items) {
		return nil, fmt.Errorf("source %d: %w", source, ErrIndexOutOfRange)
	}
	if destination < 0 || destination >= len(items) {
		return nil, fmt.Errorf("destination %d: %w", destination, ErrIndexOutOfRange)
	}

	out := slices.Clone(items)
	moved := out[source]
	out = slices.Delete(out, source, source+1)
	return slices.Insert(out, destination, moved), nil
}

// SetCompleted returns a copy of items with the completed flag of id set.
func SetCompleted(items []models.Todo, id string, completed bool) []models.Todo {
	out := slices.Clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = completed
		}
	}
	return out
}

// Without returns a copy of items minus id.
func Without(items []models.Todo, id string) []models.Todo {
	return slices.DeleteFunc(slices.Clone(items), func(t models.Todo) bool {
		return t.ID == id
	})
}

// Append returns a copy of items with todo added at the tail.
func Append(items []models.Todo, todo models.Todo) []models.Todo {
	out := make([]models.Todo, 0, len(items)+1)
	out = append(out, items...)
	return append(out, todo)
}

// SortByPosition returns a copy of items stably sorted by position.
func SortByPosition(items []models.Todo) []models.Todo {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
