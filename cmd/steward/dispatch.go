package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/internal/coordinator"
	"github.com/steward-sh/steward/internal/registry"
)

var (
	dispatchProject    string
	dispatchDomain     []string
	dispatchScope      []string
	dispatchDesc       []string
	dispatchWait       bool
	dispatchSequential bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch [description...]",
	Short: "Dispatch work to capability-scoped workers",
	Long: `Dispatch routes each request to the worker registered for its domain.

The requested scope is narrowed to the intersection with the worker's
accepted scopes; a dispatch whose effective scope would be empty is
refused. The task id prints immediately; with --wait the command blocks
until the task reaches a terminal state.

With --sequential, repeat --domain, --scope and --desc to form a batch
of requests that run one at a time, in flag order, each waiting for the
previous task to land. Scope values in a batch take comma-separated
prefixes.

Examples:
  steward dispatch --project myapp --domain test-repair --scope tests/ "repair the failing auth tests"
  steward dispatch --project myapp --domain design --scope docs/ --wait "write the dispatch design note"
  steward dispatch --project myapp --sequential \
    --domain implementation --scope lib/,internal/ --desc "fix the auth signature" \
    --domain test-repair --scope tests/ --desc "repair the tests against it"`,
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchProject, "project", "", "Project id that owns the task (required)")
	dispatchCmd.Flags().StringArrayVar(&dispatchDomain, "domain", nil, "Capability domain for the work (required; repeatable with --sequential)")
	dispatchCmd.Flags().StringArrayVar(&dispatchScope, "scope", nil, "Resource-path prefix the task may touch (repeatable, required)")
	dispatchCmd.Flags().StringArrayVar(&dispatchDesc, "desc", nil, "Task description (one per --domain with --sequential)")
	dispatchCmd.Flags().BoolVar(&dispatchWait, "wait", false, "Block until the task reaches a terminal state")
	dispatchCmd.Flags().BoolVar(&dispatchSequential, "sequential", false, "Serialize a batch of --domain/--scope/--desc triples")
	dispatchCmd.MarkFlagRequired("project")
	dispatchCmd.MarkFlagRequired("domain")
	dispatchCmd.MarkFlagRequired("scope")
}

// buildBatch pairs up repeated --domain/--scope/--desc values into requests.
// The counts must line up; each scope value may carry comma-separated
// prefixes.
func buildBatch(project string, domains, scopes, descs []string) ([]coordinator.Request, error) {
	if len(domains) != len(scopes) || len(domains) != len(descs) {
		return nil, fmt.Errorf("sequential dispatch needs one --domain, --scope and --desc per request, got %d/%d/%d",
			len(domains), len(scopes), len(descs))
	}
	reqs := make([]coordinator.Request, 0, len(domains))
	for i := range domains {
		reqs = append(reqs, coordinator.Request{
			ProjectID:   project,
			Domain:      domains[i],
			Scope:       splitScopes(scopes[i]),
			Description: descs[i],
		})
	}
	return reqs, nil
}

func splitScopes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runDispatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	coord, err := newCoordinator(cfg, db, reg)
	if err != nil {
		return err
	}

	// The registry is immutable for the life of this process. A change on
	// disk only gets recorded, and optionally halts further dispatching.
	if cfg.Registry.Path != "" {
		watcher, err := registry.Watch(cfg.Registry.Path, func() {
			db.RecordNote("", "registry file changed; restart required")
			if cfg.Registry.HaltOnChange {
				coord.Pause()
			}
		})
		if err == nil {
			defer watcher.Close()
		}
	}

	ctx := context.Background()
	if dispatchSequential {
		if len(args) > 0 {
			return fmt.Errorf("sequential dispatch takes descriptions via --desc, not arguments")
		}
		reqs, err := buildBatch(dispatchProject, dispatchDomain, dispatchScope, dispatchDesc)
		if err != nil {
			return err
		}
		for i, req := range reqs {
			handle, err := coord.DispatchWait(ctx, req)
			if err != nil {
				return fmt.Errorf("dispatch %d of %d (%s): %w", i+1, len(reqs), req.Domain, err)
			}
			fmt.Printf("task %s %s\n", handle.TaskID, statusColor(handle.Status).Sprint(handle.Status))
		}
		return nil
	}

	if len(dispatchDomain) != 1 {
		return fmt.Errorf("one --domain per dispatch; pass --sequential to serialize a batch")
	}
	description := strings.Join(args, " ")
	if description == "" && len(dispatchDesc) == 1 {
		description = dispatchDesc[0]
	}
	req := coordinator.Request{
		ProjectID:   dispatchProject,
		Domain:      dispatchDomain[0],
		Scope:       dispatchScope,
		Description: description,
	}

	if dispatchWait {
		handle, err := coord.DispatchWait(ctx, req)
		if err != nil {
			return err
		}
		view, err := coord.Query(handle.TaskID)
		if err != nil {
			return err
		}
		fmt.Printf("task %s %s\n", handle.TaskID, statusColor(handle.Status).Sprint(handle.Status))
		if view != nil && view.ResultSummary != "" {
			fmt.Println(view.ResultSummary)
		}
		return nil
	}

	handle, err := coord.Dispatch(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("task %s %s\n", handle.TaskID, statusColor(handle.Status).Sprint(handle.Status))
	// Without --wait the worker still runs in this process; hold on until
	// it lands so the dispatch is not lost on exit.
	coord.Wait()
	return nil
}
