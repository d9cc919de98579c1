package main

import (
	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the live task board",
	Long: `Open a terminal board showing every tracked task by status,
refreshed from the task store on a timer.`,
	RunE: runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return tui.Run(db, nil, cfg.TUI.RefreshRate)
}
