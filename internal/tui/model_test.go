package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/board"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

type stubAPI struct {
	todos    []models.Todo
	orderErr error
	orders   int
}

func (s *stubAPI) List(context.Context) ([]models.Todo, error) {
	return append([]models.Todo(nil), s.todos...), nil
}

func (s *stubAPI) Add(_ context.Context, title, link string) (*models.Todo, error) {
	todo := models.Todo{ID: title, Title: title, Link: link, Position: len(s.todos)}
	s.todos = append(s.todos, todo)
	return &todo, nil
}

func (s *stubAPI) UpdateCompletion(context.Context, string, bool) error { return nil }

func (s *stubAPI) Delete(_ context.Context, id string) error {
	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubAPI) UpdateOrder(context.Context, []models.Todo) error {
	s.orders++
	return s.orderErr
}

func newModel(t *testing.T, titles ...string) (Model, *stubAPI) {
	t.Helper()
	api := &stubAPI{}
	for i, title := range titles {
		api.todos = append(api.todos, models.Todo{ID: title, Title: title, Position: i})
	}
	m := New(board.New(api, infralogger.NewNop()), 0)
	return drive(t, m, m.Init()), api
}

// drive runs cmd to completion and feeds its message back into m.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

// press sends k and, when it yields a command, runs it once and feeds the
// result back. Not for keys that start a cursor blink.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drive(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func titlesOf(m Model) []string {
	var out []string
	for _, t := range m.board.Items() {
		out = append(out, t.Title)
	}
	return out
}

func TestModel_InitLoads(t *testing.T) {
	m, _ := newModel(t, "A", "B")
	assert.Equal(t, []string{"A", "B"}, titlesOf(m))
	assert.Contains(t, m.View(), "A")
	assert.Equal(t, 0, m.pending)
}

func TestModel_CursorNavigation(t *testing.T) {
	m, _ := newModel(t, "A", "B", "C")

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, runes("j"))
	assert.Equal(t, 2, m.cursor)

	m = press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)
}

func TestModel_MoveReordersAndFollowsCursor(t *testing.T) {
	m, api := newModel(t, "A", "B", "C")

	m = press(t, m, runes("J"))
	assert.Equal(t, []string{"B", "A", "C"}, titlesOf(m))
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 1, api.orders)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftUp})
	assert.Equal(t, []string{"A", "B", "C"}, titlesOf(m))
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, runes("K"))
	assert.Equal(t, 2, api.orders, "moving past the top is a no-op")
}

func TestModel_ReorderFailureShowsDivergence(t *testing.T) {
	m, api := newModel(t, "A", "B")
	api.orderErr = errors.New("server down")

	m = press(t, m, runes("J"))
	require.Error(t, m.err)
	assert.Equal(t, []string{"B", "A"}, titlesOf(m))
	assert.Contains(t, m.View(), "out of sync")

	m = press(t, m, runes("r"))
	assert.NoError(t, m.err)
	assert.NotContains(t, m.View(), "out of sync")
}

func TestModel_Toggle(t *testing.T) {
	m, _ := newModel(t, "A")

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.board.Items()[0].Completed)
}

func TestModel_DeleteClampsCursor(t *testing.T) {
	m, _ := newModel(t, "A", "B")
	m = press(t, m, runes("j"))

	m = press(t, m, runes("d"))
	assert.Equal(t, []string{"A"}, titlesOf(m))
	assert.Equal(t, 0, m.cursor)
}

func TestModel_KeyAfterBoardShrankBeforeResult(t *testing.T) {
	m, _ := newModel(t, "A", "B")
	m = press(t, m, runes("j"))
	require.Equal(t, 1, m.cursor)

	// The delete lands on the board, but its result has not reached the model.
	require.NoError(t, m.board.Remove(context.Background(), "B"))

	require.NotPanics(t, func() { m = press(t, m, tea.KeyMsg{Type: tea.KeySpace}) })
	assert.Equal(t, 0, m.cursor)
	assert.True(t, m.board.Items()[0].Completed)

	require.NoError(t, m.board.Remove(context.Background(), "A"))
	require.NotPanics(t, func() { m = press(t, m, runes("d")) })
	assert.Empty(t, m.board.Items())
}

func TestModel_AddTitleThenLink(t *testing.T) {
	m, _ := newModel(t)

	next, _ := m.Update(runes("a"))
	m = next.(Model)
	require.Equal(t, addTitle, m.stage)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Error(t, m.err, "empty title is rejected")

	for _, r := range "Go" {
		next, _ = m.Update(runes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Equal(t, addLink, m.stage)

	m.input.SetValue("https://go.dev")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, addNone, m.stage)
	assert.Equal(t, []string{"Go"}, titlesOf(m))
	assert.Equal(t, "https://go.dev", m.board.Items()[0].Link)
}

func TestModel_AddEscCancels(t *testing.T) {
	m, _ := newModel(t)
	next, _ := m.Update(runes("a"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, addNone, next.(Model).stage)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
