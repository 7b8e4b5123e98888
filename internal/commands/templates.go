package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/config"
	"github.com/bakery-sh/bakery/internal/output"
)

var (
	groupStyle   = lipgloss.NewStyle().Bold(true)
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TemplatesCmd creates the templates command with subcommands
func TemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the template catalog",
		Long: `Inspect the installed template catalog.

Examples:
  bakery templates list
  bakery templates list --filter react
  bakery templates show vite-react`,
	}

	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesShowCmd())

	return cmd
}

// templatesListCmd lists archetypes and addons
func templatesListCmd() *cobra.Command {
	var filter string
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available archetypes and addons",
		Long:  "Lists every archetype and addon discovered in the template roots.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoadCatalog(templatesDir)
			fmt.Print(renderCatalogList(snap, filter))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Fuzzy-filter templates by name")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Template root directory (overrides config)")

	return cmd
}

// templatesShowCmd shows one template in detail
func templatesShowCmd() *cobra.Command {
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "show <template>",
		Short: "Show a template's details and README",
		Long:  "Shows a template's descriptor details and renders its README when it has one.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoadCatalog(templatesDir)

			bundle, kind, ok := findBundle(snap, args[0])
			if !ok {
				available := append(snap.ArchetypeNames(), snap.AddonNames()...)
				output.Error(unknownTemplate(args[0], available))
				os.Exit(1)
			}

			fmt.Print(renderBundleDetails(bundle, kind))
			printReadme(bundle.Dir)
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Template root directory (overrides config)")

	return cmd
}

// mustLoadCatalog loads config and catalog, exiting on failure
func mustLoadCatalog(templatesDir string) *catalog.Snapshot {
	cfg, err := config.Load()
	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}

	snap, err := catalog.Load(cfg.TemplateRoots(templatesDir))
	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
	return snap
}

// renderCatalogList renders the grouped archetype and addon listing. With a
// filter, groups show fuzzy matches in score order; without, alphabetical.
func renderCatalogList(snap *catalog.Snapshot, filter string) string {
	var buf strings.Builder

	writeBundleGroup(&buf, "Archetypes", snap.ArchetypeNames(), snap.Archetypes, filter)
	writeBundleGroup(&buf, "Addons", snap.AddonNames(), snap.Addons, filter)

	if buf.Len() == 0 {
		if filter != "" {
			return fmt.Sprintf("No templates match %q.\n", filter)
		}
		return "No templates installed.\n"
	}
	return buf.String()
}

func writeBundleGroup(buf *strings.Builder, title string, names []string, bundles map[string]catalog.Bundle, filter string) {
	if filter != "" {
		matches := fuzzy.Find(filter, names)
		names = make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Str)
		}
	}
	if len(names) == 0 {
		return
	}

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	buf.WriteString(groupStyle.Render(title) + "\n")
	for _, name := range names {
		d := bundles[name].Descriptor
		fmt.Fprintf(buf, "  %-*s  %s  %s\n", width, name, versionStyle.Render("v"+d.Version), d.Description)
	}
	buf.WriteString("\n")
}

// renderBundleDetails renders one bundle's descriptor as labeled lines.
func renderBundleDetails(b catalog.Bundle, kind string) string {
	d := b.Descriptor
	var buf strings.Builder

	buf.WriteString(groupStyle.Render(d.DisplayName) + "\n")
	writeDetail(&buf, "Name", d.Name)
	writeDetail(&buf, "Kind", kind)
	writeDetail(&buf, "Version", d.Version)
	writeDetail(&buf, "Description", d.Description)
	writeDetail(&buf, "Directory", b.Dir)

	if len(d.Dependencies) > 0 {
		writeDetail(&buf, "Depends on", strings.Join(d.Dependencies, ", "))
	}
	if len(d.Prompts) > 0 {
		prompts := make([]string, len(d.Prompts))
		for i, p := range d.Prompts {
			prompts[i] = fmt.Sprintf("%s (%s)", p.Name, p.Type)
		}
		writeDetail(&buf, "Prompts", strings.Join(prompts, ", "))
	}
	if d.BaseCommand != nil {
		writeDetail(&buf, "Base command", d.BaseCommand.Command)
	}
	if len(d.Tasks) > 0 {
		tasks := make([]string, len(d.Tasks))
		for i, t := range d.Tasks {
			tasks[i] = t.Name
		}
		writeDetail(&buf, "Tasks", strings.Join(tasks, ", "))
	}

	return buf.String()
}

func writeDetail(buf *strings.Builder, label, value string) {
	fmt.Fprintf(buf, "  %s  %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), value)
}

// printReadme renders the bundle's README to stdout when one exists. Falls
// back to the raw markdown when terminal rendering fails.
func printReadme(dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if rendered, rerr := renderer.Render(string(data)); rerr == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Println()
	fmt.Print(string(data))
}

// findBundle resolves a template name to its bundle across the core slot,
// archetypes, and addons.
func findBundle(snap *catalog.Snapshot, name string) (catalog.Bundle, string, bool) {
	if name == catalog.CoreName {
		return snap.Core, "core", true
	}
	if b, ok := snap.Archetype(name); ok {
		return b, "archetype", true
	}
	if b, ok := snap.Addon(name); ok {
		return b, "addon", true
	}
	return catalog.Bundle{}, "", false
}

func unknownTemplate(name string, available []string) string {
	if len(available) == 0 {
		return fmt.Sprintf("unknown template %q (none are installed)", name)
	}
	if matches := fuzzy.Find(name, available); len(matches) > 0 {
		return fmt.Sprintf("unknown template %q (did you mean %q?)", name, matches[0].Str)
	}
	return fmt.Sprintf("unknown template %q (available: %s)", name, strings.Join(available, ", "))
}
