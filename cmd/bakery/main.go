package main

import (
	"os"

	"github.com/bakery-sh/bakery/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.SyncCmd())
	rootCmd.AddCommand(commands.TemplatesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
