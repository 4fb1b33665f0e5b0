package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/board"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/metadata"
)

func newAddCmd(a *app) *cobra.Command {
	var link string

	cmd := &cobra.Command{
		Use:   "add [title] --link URL",
		Short: "Add a todo at the end of the list",
		Long: "Add a todo at the end of the list. When the title is omitted it is " +
			"read from the linked page.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if link == "" {
				return errors.New("--link is required")
			}

			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			if title == "" {
				extracted, err := metadata.NewExtractor(a.timeout(), a.logger).Title(cmd.Context(), link)
				if err != nil {
					return fmt.Errorf("title not given and could not be read from link: %w", err)
				}
				title = extracted
			}

			todo, err := a.client.Add(cmd.Context(), title, link)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q at position %d\n", todo.ID, todo.Title, todo.Position)
			return nil
		},
	}
	cmd.Flags().StringVar(&link, "link", "", "URL the todo points to")
	return cmd
}

func newCompleteCmd(a *app) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a todo as done (or not done with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.UpdateCompletion(cmd.Context(), args[0], !undo); err != nil {
				return err
			}
			state := "done"
			if undo {
				state = "not done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", args[0], state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not done")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the todo at index <from> to index <to>",
		Long:  "Move a todo within the list. Indices are the # column of list.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid from index %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid to index %q", args[1])
			}

			b := a.board()
			if err = b.Load(cmd.Context()); err != nil {
				return err
			}
			if err = b.Reorder(cmd.Context(), board.DragResult{Source: from, Destination: &to}); err != nil {
				return err
			}
			renderTodos(cmd.OutOrStdout(), b.Items())
			return nil
		},
	}
}
