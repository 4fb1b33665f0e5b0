// Package tui is an interactive terminal view of a board.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/board"
)

const defaultRequestTimeout = 10 * time.Second

type addStage int

const (
	addNone addStage = iota
	addTitle
	addLink
)

// resultMsg carries the outcome of a board operation run as a command.
type resultMsg struct {
	op  string
	err error
}

// Model is the Bubble Tea model. Board calls run as commands so the view
// stays responsive while a request is in flight.
type Model struct {
	board   *board.Board
	timeout time.Duration

	cursor  int
	pending int

	stage     addStage
	input     textinput.Model
	pendTitle string

	status string
	err    error
}

// New returns a model over b. The board is loaded by Init.
func New(b *board.Board, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	return Model{board: b, timeout: timeout, input: ti}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(b *board.Board, timeout time.Duration) error {
	_, err := tea.NewProgram(New(b, timeout), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run("load", func(ctx context.Context) error { return m.board.Load(ctx) })
}

func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resultMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.op + " ok"
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.stage != addNone {
			return m.updateAdd(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The board can shrink under the cursor before the command that
	// shrank it reports back.
	items := m.board.Items()
	m.clampCursor()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.MoveUp):
		return m.move(len(items), -1)
	case key.Matches(msg, keys.MoveDown):
		return m.move(len(items), 1)
	case key.Matches(msg, keys.Toggle):
		if len(items) == 0 {
			return m, nil
		}
		todo := items[m.cursor]
		m.pending++
		return m, m.run("toggle", func(ctx context.Context) error {
			return m.board.ToggleCompletion(ctx, todo.ID, !todo.Completed)
		})
	case key.Matches(msg, keys.Delete):
		if len(items) == 0 {
			return m, nil
		}
		id := items[m.cursor].ID
		m.pending++
		return m, m.run("delete", func(ctx context.Context) error { return m.board.Remove(ctx, id) })
	case key.Matches(msg, keys.Add):
		m.stage = addTitle
		m.input.Placeholder = "Title"
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, keys.Reload):
		m.pending++
		return m, m.run("load", func(ctx context.Context) error { return m.board.Load(ctx) })
	}
	return m, nil
}

// move drags the item under the cursor one step and keeps the cursor on it.
func (m Model) move(n, delta int) (tea.Model, tea.Cmd) {
	dest := m.cursor + delta
	if n == 0 || dest < 0 || dest >= n {
		return m, nil
	}
	drag := board.DragResult{Source: m.cursor, Destination: &dest}
	m.cursor = dest
	m.pending++
	return m, m.run("reorder", func(ctx context.Context) error { return m.board.Reorder(ctx, drag) })
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stage = addNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.status = ""
			m.err = fmt.Errorf("%s cannot be empty", strings.ToLower(m.input.Placeholder))
			return m, nil
		}
		if m.stage == addTitle {
			m.pendTitle = value
			m.stage = addLink
			m.input.Placeholder = "Link"
			m.input.SetValue("")
			return m, nil
		}
		title := m.pendTitle
		m.stage = addNone
		m.input.Blur()
		m.pending++
		return m, m.run("add", func(ctx context.Context) error {
			_, err := m.board.Add(ctx, title, value)
			return err
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clampCursor() {
	n := len(m.board.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	items := m.board.Items()
	var b strings.Builder

	done := 0
	for _, t := range items {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d\n\n",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(items)-done,
	)

	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("  nothing to do") + "\n")
	}
	for i, t := range items {
		box, text := mutedStyle.Render(boxUnchecked), t.Title
		if t.Completed {
			box, text = successStyle.Render(boxChecked), doneStyle.Render(t.Title)
		}
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", prefix, box, text, mutedStyle.Render(t.Link))
	}

	b.WriteString("\n")
	if m.stage != addNone {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(helpStyle.Render(helpLine()))
	return b.String()
}

func (m Model) statusLine() string {
	var parts []string
	if m.pending > 0 {
		parts = append(parts, mutedStyle.Render("saving…"))
	}
	if m.board.Diverged() {
		parts = append(parts, errorStyle.Render("⚠ out of sync, press r to reload"))
	}
	switch {
	case m.err != nil:
		parts = append(parts, errorStyle.Render("✖ "+m.err.Error()))
	case m.status != "":
		parts = append(parts, successStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func helpLine() string {
	bindings := keys.help()
	parts := make([]string, len(bindings))
	for i, k := range bindings {
		h := k.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, " • ")
}
