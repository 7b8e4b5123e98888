// Package generate wires the whole pipeline behind `bakery new`: catalog
// loading, bundle resolution, prompting, composition, writing, post
// processing, external commands, and manifest persistence. Everything here
// orchestrates; the heavy lifting lives in the packages it calls.
package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/bakery-sh/bakery"
	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/compose"
	"github.com/bakery-sh/bakery/internal/manifest"
	"github.com/bakery-sh/bakery/internal/output"
	"github.com/bakery-sh/bakery/internal/postprocess"
	"github.com/bakery-sh/bakery/internal/render"
	"github.com/bakery-sh/bakery/internal/resolve"
	"github.com/bakery-sh/bakery/internal/runner"
	"github.com/bakery-sh/bakery/internal/wizard"
)

var (
	boldStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Options carries everything `bakery new` collected from flags, config,
// and arguments.
type Options struct {
	Name        string   // project name (required)
	Archetype   string   // archetype id; empty asks interactively or bakes core only
	Addons      []string // addon ids in selection order
	OutputDir   string   // defaults to ./<name>
	Roots       []string // layered template roots
	Description string
	Author      string
	License     string

	DryRun       bool
	NoInput      bool
	AnswersFile  string
	Force        bool
	SkipExisting bool
	ShowDiff     bool
	NoGit        bool

	Stdout   io.Writer        // defaults to os.Stdout
	Stdin    io.Reader        // defaults to os.Stdin
	Executor *runner.Executor // injectable for tests
}

// Generator runs one project generation.
type Generator struct {
	opts     Options
	renderer *render.Renderer
	exec     *runner.Executor
	stdout   io.Writer
}

// New creates a Generator from options.
func New(opts Options) *Generator {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	exec := opts.Executor
	if exec == nil {
		exec = runner.NewExecutor(nil)
	}
	return &Generator{
		opts:     opts,
		renderer: render.NewRenderer(),
		exec:     exec,
		stdout:   opts.Stdout,
	}
}

// Run executes the generation pipeline. Failures abort immediately: partial
// output is possible and callers are expected to generate into directories
// that were empty or explicitly forced.
func (g *Generator) Run(ctx context.Context) error {
	if g.opts.Name == "" {
		return fmt.Errorf("project name is required")
	}

	policy, err := compose.PolicyFromFlags(g.opts.Force, g.opts.SkipExisting, g.opts.ShowDiff)
	if err != nil {
		return err
	}

	snap, err := catalog.Load(g.opts.Roots)
	if err != nil {
		return fmt.Errorf("loading template catalog: %w", err)
	}

	collector, err := g.newCollector()
	if err != nil {
		return err
	}

	archetype, err := g.chooseArchetype(snap, collector)
	if err != nil {
		return err
	}
	if err := checkAddons(snap, g.opts.Addons); err != nil {
		return err
	}

	bundles := resolve.Resolve(archetype, g.opts.Addons, snap)

	values, err := collector.Collect(bundles)
	if err != nil {
		return err
	}
	rctx := g.buildContext(archetype, bundles, values)

	if g.opts.DryRun {
		summary, err := compose.DryRun(g.renderer, bundles, rctx)
		if err != nil {
			return err
		}
		g.printDryRun(summary)
		return nil
	}

	outputDir, err := g.ensureOutputDir()
	if err != nil {
		return err
	}

	vars := runner.Vars{
		ProjectName: g.opts.Name,
		ParentDir:   filepath.Dir(outputDir),
		OutputDir:   outputDir,
		Addons:      rctx.Addons,
	}

	for _, b := range bundles {
		if err := g.exec.RunHook(ctx, "beforeGenerate", b.Descriptor.Hooks.BeforeGenerate, vars); err != nil {
			return err
		}
	}

	for _, b := range bundles {
		if b.Descriptor.BaseCommand == nil {
			continue
		}
		output.Step(fmt.Sprintf("Running base generator for %s", b.Name()))
		if err := g.exec.RunBase(ctx, b.Descriptor.BaseCommand, vars); err != nil {
			return err
		}
	}

	fileSet, err := compose.Compose(g.renderer, bundles, rctx)
	if err != nil {
		return err
	}
	for _, b := range bundles {
		if err := compose.Overlay(fileSet, g.renderer, b, rctx); err != nil {
			return err
		}
	}

	result, err := compose.Write(fileSet, outputDir, compose.WriteOptions{Policy: policy, Out: g.stdout})
	if err != nil {
		return err
	}
	if err := compose.Verify(fileSet, outputDir, result.Skipped); err != nil {
		return err
	}

	if err := postprocess.Apply(outputDir, bundles); err != nil {
		return err
	}

	g.initGit(ctx, outputDir)

	for _, b := range bundles {
		if err := g.exec.RunHook(ctx, "afterGenerate", b.Descriptor.Hooks.AfterGenerate, vars); err != nil {
			return err
		}
	}

	var tasks []catalog.Task
	for _, b := range bundles {
		tasks = append(tasks, b.Descriptor.Tasks...)
	}
	if err := g.exec.RunTasks(ctx, tasks, vars); err != nil {
		return err
	}

	// The manifest is built last so it hashes the tree exactly as the
	// user receives it; a sync straight after new reports clean.
	m, err := manifest.Build(outputDir, manifest.Meta{
		BakeryVersion: bakery.Version,
		Archetype:     archetype,
		Addons:        rctx.Addons,
	})
	if err != nil {
		return fmt.Errorf("building manifest: %w", err)
	}
	if err := m.Save(outputDir); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	g.printSummary(outputDir, fileSet, result)
	return nil
}

func (g *Generator) newCollector() (*wizard.Collector, error) {
	var answers map[string]any
	if g.opts.AnswersFile != "" {
		loaded, err := wizard.LoadAnswers(g.opts.AnswersFile)
		if err != nil {
			return nil, err
		}
		answers = loaded
	}
	return wizard.New(wizard.Options{
		Answers: answers,
		NoInput: g.opts.NoInput,
		Stdin:   g.opts.Stdin,
		Stdout:  g.stdout,
	}), nil
}

// chooseArchetype validates the requested archetype, or asks for one when
// none was given. Without a terminal the choice stays empty and only core
// is baked.
func (g *Generator) chooseArchetype(snap *catalog.Snapshot, collector *wizard.Collector) (string, error) {
	name := g.opts.Archetype
	if name == "" {
		names := snap.ArchetypeNames()
		if len(names) == 0 || !collector.Interactive() {
			return "", nil
		}
		return collector.SelectOne("Choose an archetype", names, "")
	}
	if _, ok := snap.Archetype(name); !ok {
		return "", unknownError("archetype", name, snap.ArchetypeNames())
	}
	return name, nil
}

func checkAddons(snap *catalog.Snapshot, addons []string) error {
	for _, name := range addons {
		if _, ok := snap.Addon(name); !ok {
			return unknownError("addon", name, snap.AddonNames())
		}
	}
	return nil
}

// unknownError builds a not-found error, fuzzy-matching the input against
// what the catalog actually offers.
func unknownError(kind, name string, available []string) error {
	if matches := fuzzy.Find(name, available); len(matches) > 0 {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, name, matches[0].Str)
	}
	if len(available) == 0 {
		return fmt.Errorf("unknown %s %q (none are installed)", kind, name)
	}
	return fmt.Errorf("unknown %s %q (available: %s)", kind, name, strings.Join(available, ", "))
}

func (g *Generator) buildContext(archetype string, bundles []catalog.Bundle, values map[string]any) *render.Context {
	rctx := render.NewContext(g.opts.Name)
	rctx.Description = g.opts.Description
	rctx.Author = g.opts.Author
	rctx.License = g.opts.License
	rctx.Archetype = archetype
	for _, b := range bundles {
		name := b.Name()
		if name == catalog.CoreName || name == archetype {
			continue
		}
		rctx.Addons = append(rctx.Addons, name)
	}
	if v, ok := values["frameworks"]; ok {
		rctx.Frameworks = wizard.StringSlice(v)
	}
	if repo, ok := values["repository"].(string); ok {
		rctx.Repository = repo
	}
	rctx.Values = values
	return rctx
}

func (g *Generator) ensureOutputDir() (string, error) {
	dir := g.opts.OutputDir
	if dir == "" {
		dir = g.opts.Name
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(abs, 0755); err != nil {
				return "", fmt.Errorf("creating output directory: %w", err)
			}
			return abs, nil
		}
		return "", fmt.Errorf("reading output directory: %w", err)
	}
	if len(entries) > 0 && !g.opts.Force && !g.opts.SkipExisting && !g.opts.ShowDiff {
		return "", fmt.Errorf("output directory %s is not empty (use --force, --skip-existing, or --diff)", abs)
	}
	return abs, nil
}

// initGit initializes a repository in the output directory. Failures are
// reported but never abort the run: the project itself generated fine.
func (g *Generator) initGit(ctx context.Context, outputDir string) {
	if g.opts.NoGit {
		return
	}
	if info, err := os.Stat(filepath.Join(outputDir, ".git")); err == nil && info.IsDir() {
		output.Verbose("git repository already present, skipping init")
		return
	}
	if !g.exec.HasCommand("git") {
		output.Warn("git not found on PATH, skipping repository init")
		return
	}
	if err := g.exec.RunShell(ctx, outputDir, "git init --quiet"); err != nil {
		output.Warn(fmt.Sprintf("git init failed: %v", err))
	}
}

func (g *Generator) printDryRun(s *compose.Summary) {
	fmt.Fprintln(g.stdout, boldStyle.Render("Dry run: nothing will be written"))
	fmt.Fprintln(g.stdout)
	for _, f := range s.Files {
		fmt.Fprintf(g.stdout, "  %s %s\n", f.Path, dimStyle.Render(formatSize(f.Size)))
	}
	fmt.Fprintln(g.stdout)
	fmt.Fprintln(g.stdout, dimStyle.Render(fmt.Sprintf("%d files, %s total", len(s.Files), formatSize(s.TotalSize))))

	if len(s.Commands) > 0 {
		fmt.Fprintln(g.stdout, "\nCommands that would run:")
		for _, c := range s.Commands {
			fmt.Fprintf(g.stdout, "  $ %s\n", c)
		}
	}
	if len(s.Dependencies) > 0 {
		fmt.Fprintf(g.stdout, "\nDependencies: %s\n", strings.Join(sortedKeys(s.Dependencies), ", "))
	}
	if len(s.DevDependencies) > 0 {
		fmt.Fprintf(g.stdout, "Dev dependencies: %s\n", strings.Join(sortedKeys(s.DevDependencies), ", "))
	}
}

func (g *Generator) printSummary(outputDir string, fileSet *render.FileSet, result *compose.WriteResult) {
	output.Success(fmt.Sprintf("Baked %s", g.opts.Name))
	output.Info(fmt.Sprintf("%d files written to %s", len(result.Written), displayPath(outputDir)))
	if len(result.Skipped) > 0 {
		output.Info(fmt.Sprintf("%d existing files kept", len(result.Skipped)))
	}
	output.Info("Next steps:")
	output.Step(fmt.Sprintf("cd %s", displayPath(outputDir)))
	if fileSet.Has("package.json") {
		output.Step("npm install")
	}
	output.Step("bakery sync  # confirm a clean manifest")
}

// displayPath prefers a path relative to the working directory when the
// target sits underneath it.
func displayPath(abs string) string {
	wd, err := os.Getwd()
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
