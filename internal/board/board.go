// Package board holds the client's copy of the todo list and keeps it in
// step with the server.
//
// Completion toggles and reorders are applied locally before the request
// is sent and are not rolled back when it fails. Such failures are kept as
// divergences until the next successful Load.
package board

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// API is the server surface the board talks to.
type API interface {
	List(ctx context.Context) ([]models.Todo, error)
	Add(ctx context.Context, title, link string) (*models.Todo, error)
	UpdateCompletion(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
	UpdateOrder(ctx context.Context, todos []models.Todo) error
}

// Operations that can leave the board out of step with the server.
const (
	OpToggleCompletion = "toggle_completion"
	OpReorder          = "reorder"
)

// Divergence records an optimistic change the server did not accept.
type Divergence struct {
	Op  string
	ID  string
	Err error
	At  time.Time
}

func (d Divergence) String() string {
	if d.ID == "" {
		return fmt.Sprintf("%s: %v", d.Op, d.Err)
	}
	return fmt.Sprintf("%s %s: %v", d.Op, d.ID, d.Err)
}

// DragResult describes a finished drag. A nil Destination means the item
// was dropped outside the list.
type DragResult struct {
	Source      int
	Destination *int
}

// Board is safe for concurrent use.
type Board struct {
	api    API
	logger infralogger.Logger

	mu          sync.Mutex
	items       []models.Todo
	divergences []Divergence
}

func New(api API, log infralogger.Logger) *Board {
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Board{api: api, logger: log}
}

// Items returns a copy of the current sequence.
func (b *Board) Items() []models.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

func (b *Board) Divergences() []Divergence {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.divergences)
}

func (b *Board) Diverged() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.divergences) > 0
}

// Load replaces the local sequence with the server's. On failure the
// current sequence is kept.
func (b *Board) Load(ctx context.Context) error {
	todos, err := b.api.List(ctx)
	if err != nil {
		b.logger.Error("Failed to load todos", infralogger.Error(err))
		return fmt.Errorf("load todos: %w", err)
	}

	b.mu.Lock()
	b.items = SortByPosition(todos)
	b.divergences = nil
	b.mu.Unlock()
	return nil
}

// Add creates a todo and appends the server's record on success.
func (b *Board) Add(ctx context.Context, title, link string) (*models.Todo, error) {
	todo, err := b.api.Add(ctx, title, link)
	if err != nil {
		b.logger.Error("Failed to add todo",
			infralogger.String("title", title),
			infralogger.Error(err),
		)
		return nil, fmt.Errorf("add todo: %w", err)
	}

	b.mu.Lock()
	b.items = Append(b.items, *todo)
	b.mu.Unlock()
	return todo, nil
}

// ToggleCompletion sets the flag locally and then asks the server to do
// the same.
func (b *Board) ToggleCompletion(ctx context.Context, id string, completed bool) error {
	b.mu.Lock()
	b.items = SetCompleted(b.items, id, completed)
	b.mu.Unlock()

	if err := b.api.UpdateCompletion(ctx, id, completed); err != nil {
		b.diverge(OpToggleCompletion, id, err)
		return fmt.Errorf("update completion: %w", err)
	}
	return nil
}

// Remove deletes id on the server and drops it locally once that succeeds.
func (b *Board) Remove(ctx context.Context, id string) error {
	if err := b.api.Delete(ctx, id); err != nil {
		b.logger.Error("Failed to delete todo",
			infralogger.String("todo_id", id),
			infralogger.Error(err),
		)
		return fmt.Errorf("delete todo: %w", err)
	}

	b.mu.Lock()
	b.items = Without(b.items, id)
	b.mu.Unlock()
	return nil
}

// Reorder applies a drag locally and sends the whole new sequence in one
// request.
func (b *Board) Reorder(ctx context.Context, drag DragResult) error {
	if drag.Destination == nil {
		return nil
	}

	b.mu.Lock()
	reordered, err := Move(b.items, drag.Source, *drag.Destination)
	if err != nil {
		b.mu.Unlock()
		return fmt.Errorf("reorder: %w", err)
	}
	for i := range reordered {
		reordered[i].Position = i
	}
	b.items = reordered
	b.mu.Unlock()

	if err = b.api.UpdateOrder(ctx, reordered); err != nil {
		b.diverge(OpReorder, "", err)
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (b *Board) diverge(op, id string, err error) {
	b.logger.Error("Server rejected local change",
		infralogger.String("operation", op),
		infralogger.String("todo_id", id),
		infralogger.Error(err),
	)

	b.mu.Lock()
	b.divergences = append(b.divergences, Divergence{Op: op, ID: id, Err: err, At: time.Now()})
	b.mu.Unlock()
}
