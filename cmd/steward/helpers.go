package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/internal/coordinator"
	"github.com/steward-sh/steward/internal/registry"
	"github.com/steward-sh/steward/internal/state"
	"github.com/steward-sh/steward/internal/worker"
	"github.com/steward-sh/steward/pkg/models"
)

// openStore opens and migrates the task store named by the config.
func openStore(cfg *config.Config) (*state.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate task store: %w", err)
	}
	return db, nil
}

// loadRegistry loads the registry file named by the config, or the
// built-in registry when none is configured.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Registry.Path == "" {
		return registry.Default(), nil
	}
	return registry.Load(cfg.Registry.Path)
}

// newCoordinator wires a coordinator from the config.
func newCoordinator(cfg *config.Config, db *state.DB, reg *registry.Registry) (*coordinator.Coordinator, error) {
	logger, err := coordinator.NewLogger(cfg.Log.Path)
	if err != nil {
		return nil, err
	}
	return coordinator.New(coordinator.Config{
		Store:         db,
		Registry:      reg,
		Logger:        logger,
		MaxConcurrent: cfg.Workers.MaxConcurrent,
		WorkerOptions: worker.Options{
			TransitionRetries:  cfg.Workers.TransitionRetries,
			WaitForBlockers:    cfg.Workers.WaitForBlockers,
			BlockerWaitTimeout: cfg.Workers.BlockerWaitTimeout,
		},
	})
}

// statusColor returns the color used for a task status.
func statusColor(status models.TaskStatus) *color.Color {
	switch status {
	case models.TaskStatusTodo:
		return color.New(color.FgWhite)
	case models.TaskStatusInProgress:
		return color.New(color.FgCyan)
	case models.TaskStatusBlocked:
		return color.New(color.FgYellow)
	case models.TaskStatusCompleted:
		return color.New(color.FgGreen)
	case models.TaskStatusRefused:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
