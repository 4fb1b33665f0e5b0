package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// MemoryStore keeps todos in a map. Data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	todos map[string]models.Todo
	now   func() time.Time
	// last is the newest CreatedAt handed out; creation times are kept
	// strictly increasing so insertion order breaks position ties.
	last time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos: make(map[string]models.Todo),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, title, link string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	todo := models.Todo{
		ID:        uuid.NewString(),
		Title:     title,
		Link:      link,
		Position:  len(s.todos),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.todos[todo.ID] = todo
	return &todo, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Todo, error) {
	s.mu.RLock()
	todos := make([]models.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		todos = append(todos, t)
	}
	s.mu.RUnlock()

	sortTodos(todos)
	return todos, nil
}

func (s *MemoryStore) SetOrder(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, a := range assignments(ids) {
		t, ok := s.todos[a.ID]
		if !ok {
			continue
		}
		t.Position = a.Position
		t.UpdatedAt = now
		s.todos[a.ID] = t
	}
	return nil
}

func (s *MemoryStore) UpdateCompletion(_ context.Context, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return ErrNotFound
	}
	t.Completed = completed
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
