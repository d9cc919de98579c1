package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steward-sh/steward/internal/config"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the loaded capability registry",
	Long: `Display the domain routing table: one worker per domain, its
accepted scopes, and its escalation thresholds.`,
	RunE: runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	source := reg.Path()
	if source == "" {
		source = "(built-in)"
	}
	fmt.Printf("Registry: %s\n\n", source)

	for _, d := range reg.Descriptors() {
		fmt.Printf("  %-16s scopes: %s\n", d.Domain, strings.Join(d.AcceptedScopes, ", "))
		for _, rule := range d.Policy() {
			fmt.Printf("  %-16s   <= %-2d %s\n", "", rule.MaxScore, rule.Tier)
		}
	}
	return nil
}
