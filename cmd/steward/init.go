package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
	"github.com/steward-sh/steward/internal/registry"
	"github.com/steward-sh/steward/internal/state"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Steward configuration",
	Long: `Set up Steward for first use.

This command creates:
  - The user config file (~/.config/steward/config.yaml)
  - A starter capability registry next to it
  - The task store database

Examples:
  steward init           # Initialize with defaults
  steward init --force   # Overwrite an existing registry`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing registry and config")
}

func runInit(cmd *cobra.Command, args []string) error {
	registryPath := filepath.Join(filepath.Dir(config.GetUserConfigPath()), "registry.yaml")

	if _, err := os.Stat(registryPath); err == nil && !initForce {
		fmt.Println("Already initialized. Use --force to overwrite the registry.")
		return nil
	}

	cfg := config.Default()
	cfg.Registry.Path = registryPath
	if err := config.Save(cfg); err != nil {
		printStatus("✗", "Could not write config", color.FgRed)
		return err
	}
	printStatus("✓", fmt.Sprintf("Wrote config to %s", config.GetUserConfigPath()), color.FgGreen)

	if err := os.WriteFile(registryPath, []byte(registry.DefaultYAML), 0644); err != nil {
		printStatus("✗", "Could not write registry", color.FgRed)
		return err
	}
	// The starter registry must load cleanly before we call it done.
	if _, err := registry.Load(registryPath); err != nil {
		return fmt.Errorf("starter registry does not load: %w", err)
	}
	printStatus("✓", fmt.Sprintf("Wrote capability registry to %s", registryPath), color.FgGreen)

	db, err := state.Open(state.DefaultDBPath())
	if err != nil {
		printStatus("✗", "Could not open task store", color.FgRed)
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate task store: %w", err)
	}
	printStatus("✓", fmt.Sprintf("Task store ready at %s", db.Path()), color.FgGreen)

	fmt.Printf("\n%s Steward initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Println("  1. Review the registry:")
	fmt.Printf("     %s\n", registryPath)
	fmt.Println()
	fmt.Println("  2. Dispatch work:")
	fmt.Println("     steward dispatch --project myapp --domain test-repair --scope tests/ \"repair the failing auth tests\"")
	fmt.Println()
	fmt.Println("  3. Watch it run:")
	fmt.Println("     steward board")

	return nil
}
