package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bakery-sh/bakery/internal/config"
	"github.com/bakery-sh/bakery/internal/generate"
	"github.com/bakery-sh/bakery/internal/output"
)

// NewCmd creates and returns the 'new' command for baking projects
func NewCmd() *cobra.Command {
	var (
		archetype    string
		addons       []string
		outputDir    string
		templatesDir string
		answersFile  string
		description  string
		author       string
		license      string
		dryRun       bool
		noInput      bool
		force        bool
		skipExisting bool
		showDiff     bool
		noGit        bool
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Bake a new project",
		Long: `Bakes a new project from the template catalog.

The project is assembled from the core bundle, the chosen archetype,
and any addons, including everything they depend on. Template prompts
are asked interactively unless answered via --answers or --no-input.

Examples:
  bakery new myapp --archetype vite-react
  bakery new myapp -a vite-react --addon biome --addon convex
  bakery new myapp -a astro --dry-run
  bakery new myapp -a vite-react --no-input --answers answers.yml`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if author == "" {
				author = cfg.Author
			}
			if license == "" {
				license = cfg.License
			}

			gen := generate.New(generate.Options{
				Name:         args[0],
				Archetype:    archetype,
				Addons:       addons,
				OutputDir:    outputDir,
				Roots:        cfg.TemplateRoots(templatesDir),
				Description:  description,
				Author:       author,
				License:      license,
				DryRun:       dryRun,
				NoInput:      noInput,
				AnswersFile:  answersFile,
				Force:        force,
				SkipExisting: skipExisting,
				ShowDiff:     showDiff,
				NoGit:        noGit || !cfg.GitInit,
			})
			if err := gen.Run(cmd.Context()); err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&archetype, "archetype", "a", "", "Archetype to bake (asked interactively when omitted)")
	cmd.Flags().StringArrayVar(&addons, "addon", nil, "Addon to layer on top (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to ./<project-name>)")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Template root directory (overrides config)")
	cmd.Flags().StringVar(&answersFile, "answers", "", "YAML file with prompt answers")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&author, "author", "", "Project author (defaults to config)")
	cmd.Flags().StringVar(&license, "license", "", "Project license (defaults to config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview files and commands without writing anything")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; use answers and defaults")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files in the output directory")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Keep existing files, write the rest")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show diffs for conflicting files instead of writing")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "Skip git repository initialization")

	return cmd
}
