package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := a.board()
			if err := b.Load(cmd.Context()); err != nil {
				return err
			}
			renderTodos(cmd.OutOrStdout(), b.Items())
			return nil
		},
	}
}

// renderTodos prints todos as a table. The # column is the index that
// move accepts.
func renderTodos(w io.Writer, todos []models.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "ID", "Done", "Title", "Link", "Position"})

	done := 0
	for i, todo := range todos {
		mark := " "
		if todo.Completed {
			mark = "✔"
			done++
		}
		t.AppendRow(table.Row{i, todo.ID, mark, todo.Title, todo.Link, todo.Position})
	}
	t.AppendFooter(table.Row{"", "", done, fmt.Sprintf("%d todos", len(todos))})
	t.Render()
}
