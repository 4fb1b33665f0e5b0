package main

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/tui"
)

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return tui.Run(a.board(), a.timeout())
		},
	}
}
