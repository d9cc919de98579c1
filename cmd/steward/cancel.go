package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/pkg/models"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <task-id>",
	Short: "Cancel a task that has not been claimed yet",
	Long: `Refuse a task still in todo.

Once a worker claims a task, cancellation is cooperative and belongs to
the dispatching process; this command only handles the pre-claim case.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

func runCancel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ok, current, err := db.TransitionWithSummary(args[0], models.TaskStatusTodo, models.TaskStatusRefused, "cancelled before execution")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s is %s, only todo tasks can be cancelled here", args[0], current)
	}
	fmt.Printf("task %s %s\n", args[0], statusColor(models.TaskStatusRefused).Sprint(models.TaskStatusRefused))
	return nil
}
