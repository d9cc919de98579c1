package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/internal/state"
)

var auditSince time.Duration

var auditCmd = &cobra.Command{
	Use:   "audit [task-id]",
	Short: "Show the transition audit trail",
	Long: `Display the append-only audit trail of status transitions.

Every transition attempt is recorded, accepted or rejected, along with
non-transition events such as blocker hand-offs and high-risk flags.
Rejected attempts print in red; they are how races between workers are
diagnosed after the fact.

Examples:
  steward audit                # Last 24 hours, all tasks
  steward audit --since 2h     # Last two hours
  steward audit 4f3a1c2e-...   # One task's full trail`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().DurationVar(&auditSince, "since", 24*time.Hour, "How far back to list entries (ignored with a task id)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var entries []state.AuditEntry
	if len(args) == 1 {
		entries, err = db.ListAuditByTask(args[0])
	} else {
		entries, err = db.ListAuditSince(time.Now().Add(-auditSince))
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}

	for _, e := range entries {
		printAuditEntry(e)
	}
	return nil
}

func printAuditEntry(e state.AuditEntry) {
	ts := e.CreatedAt.Format("2006-01-02 15:04:05")
	id := shortID(e.TaskID)
	if id == "" {
		id = "system  "
	}

	if e.Note != "" && e.OldStatus == e.NewStatus {
		fmt.Printf("  %s  %s  %s\n", ts, id, e.Note)
		return
	}

	move := fmt.Sprintf("%s -> %s", e.OldStatus, e.NewStatus)
	if e.Accepted {
		fmt.Printf("  %s  %s  %s\n", ts, id, color.GreenString(move))
	} else {
		fmt.Printf("  %s  %s  %s\n", ts, id, color.RedString("%s (rejected)", move))
	}
}
