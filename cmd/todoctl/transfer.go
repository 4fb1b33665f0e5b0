package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Append the todos of a workbook to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			rows, rowErrs, err := importer.ParseWorkbook(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			imported := 0
			for _, row := range rows {
				todo, addErr := a.client.Add(ctx, row.Title, row.Link)
				if addErr != nil {
					rowErrs = append(rowErrs, importer.ImportError{Row: row.Row, Error: addErr.Error()})
					continue
				}
				if row.Completed {
					if doneErr := a.client.UpdateCompletion(ctx, todo.ID, true); doneErr != nil {
						a.logger.Warn("Imported todo left incomplete",
							infralogger.String("todo_id", todo.ID),
							infralogger.Error(doneErr),
						)
					}
				}
				imported++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rows\n", imported, imported+len(rowErrs))
			if len(rowErrs) > 0 {
				t := table.NewWriter()
				t.SetOutputMirror(out)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Row", "Error"})
				for _, e := range rowErrs {
					t.AppendRow(table.Row{e.Row, e.Error})
				}
				t.Render()
				return fmt.Errorf("%d rows failed", len(rowErrs))
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the list to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := a.board()
			if err := b.Load(cmd.Context()); err != nil {
				return err
			}
			items := b.Items()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err = importer.WriteWorkbook(f, items); err != nil {
				_ = f.Close()
				return err
			}
			if err = f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d todos to %s\n", len(items), args[0])
			return nil
		},
	}
}
