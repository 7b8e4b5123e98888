package commands

import (
	"github.com/spf13/cobra"

	"github.com/bakery-sh/bakery"
	"github.com/bakery-sh/bakery/internal/output"
)

// RootCmd creates and returns the root command for the bakery CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bakery",
		Short: "Bake projects from layered templates",
		Long: `Bakery scaffolds projects by composing template bundles:
a shared core, one archetype, and any number of addons, merged in
dependency order with later bundles overriding earlier ones.

• Archetypes shape the project (vite-react, astro, ...)
• Addons layer tooling on top (biome, convex, docker, ...)
• A manifest records every generated file, so later edits are detectable

Example:
  bakery new myapp --archetype vite-react --addon biome`,
		Version: bakery.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
