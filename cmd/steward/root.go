package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "steward",
	Short: "Capability-routed task dispatcher",
	Long: `Steward routes units of work to capability-scoped workers.

Each request names a domain and a resource scope. Steward routes it to
exactly one registered worker, narrows the scope to what that worker may
touch, and tracks the task through its lifecycle. Workers that discover
out-of-scope problems hand them off as new tracked tasks instead of
fixing them in place.

Core capabilities:
- Routes each request to exactly one worker per domain
- Confines workers to an intersected resource scope
- Escalates internally on complexity scoring
- Records every status transition in an audit trail`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	Execute()
}
