package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/pkg/models"
)

var statusProject string

var statusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show task status",
	Long: `Display the state of one task or of all tracked tasks.

With a task id, shows that task's status, complexity score, scope and
result summary. Without one, lists all tasks, optionally filtered to a
project.

Examples:
  steward status                  # All tasks
  steward status --project myapp  # One project's tasks
  steward status 4f3a1c2e-...     # One task in detail`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusProject, "project", "", "Limit the listing to one project")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		task, err := db.GetTask(args[0])
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("no task with id %s", args[0])
		}
		printTaskDetail(task)
		return nil
	}

	var tasks []models.Task
	if statusProject != "" {
		tasks, err = db.ListTasksByProject(statusProject)
	} else {
		tasks, err = db.ListTasks(nil)
	}
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks. Run 'steward dispatch' to create one.")
		return nil
	}

	for _, t := range tasks {
		score := " "
		if t.ComplexityScore != nil {
			score = fmt.Sprintf("%d", *t.ComplexityScore)
		}
		fmt.Printf("  %s  %-12s %-16s [%s] %s\n",
			shortID(t.ID),
			statusColor(t.Status).Sprint(t.Status),
			t.Domain,
			score,
			t.Description)
	}
	return nil
}

func printTaskDetail(t *models.Task) {
	fmt.Printf("Task %s\n", t.ID)
	fmt.Printf("  Project: %s\n", t.ProjectID)
	fmt.Printf("  Domain:  %s\n", t.Domain)
	fmt.Printf("  Status:  %s\n", statusColor(t.Status).Sprint(t.Status))
	fmt.Printf("  Scope:   %s\n", strings.Join(t.Scope, ", "))
	if t.ParentTaskID != "" {
		fmt.Printf("  Parent:  %s\n", t.ParentTaskID)
	}
	if t.ComplexityScore != nil {
		fmt.Printf("  Complexity: %d\n", *t.ComplexityScore)
	}
	if t.Description != "" {
		fmt.Printf("  Description: %s\n", t.Description)
	}
	if t.ResultSummary != "" {
		fmt.Println("  Result:")
		for _, line := range strings.Split(t.ResultSummary, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	if t.CompletedAt != nil {
		fmt.Printf("  Finished: %s\n", t.CompletedAt.Format("2006-01-02 15:04:05"))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
