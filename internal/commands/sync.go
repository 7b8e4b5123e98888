package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bakery-sh/bakery/internal/drift"
	"github.com/bakery-sh/bakery/internal/manifest"
	"github.com/bakery-sh/bakery/internal/output"
)

// SyncCmd creates and returns the 'sync' command for drift detection
func SyncCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sync [project-dir]",
		Short: "Compare a baked project against its manifest",
		Long: `Compares the project tree against the manifest written at bake time
and reports what changed: modified, added, and removed files, with
bakery-managed files called out.

Sync never modifies the project. Run it from the project root, or
pass the project directory as an argument.

Examples:
  bakery sync
  bakery sync ./myapp
  bakery sync --json`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			m, err := manifest.Load(dir)
			if err != nil {
				if errors.Is(err, manifest.ErrNotFound) {
					output.Error(fmt.Sprintf("no manifest at %s (was this project baked by bakery?)", manifest.Path(dir)))
				} else {
					output.Error(err.Error())
				}
				os.Exit(1)
			}
			output.Verbose(fmt.Sprintf("Manifest: archetype %q, %d files, generated %s",
				m.Archetype, len(m.Files), m.GeneratedAt.Format("2006-01-02 15:04:05")))

			changes, err := drift.Detect(dir, m)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if jsonOut {
				data, err := drift.ReportJSON(changes)
				if err != nil {
					output.Error(err.Error())
					os.Exit(1)
				}
				fmt.Print(string(data))
				return
			}
			fmt.Print(drift.Report(changes))
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the change list as JSON")

	return cmd
}
