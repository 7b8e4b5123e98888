package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/output"
)

// convexAddon is the addon name the if-convex condition looks for.
const convexAddon = "convex"

// Vars are the values descriptor command strings and task conditions are
// evaluated against.
type Vars struct {
	ProjectName string
	ParentDir   string   // directory the project is generated into
	OutputDir   string   // the generated project root itself
	Addons      []string // selected addon names
}

// ExpandVars substitutes {{projectName}} and {{parentDir}} in a descriptor
// command or workdir string.
func ExpandVars(s string, vars Vars) string {
	r := strings.NewReplacer(
		"{{projectName}}", vars.ProjectName,
		"{{parentDir}}", vars.ParentDir,
	)
	return r.Replace(s)
}

// EvalCondition reports whether a task condition holds. Unknown conditions
// evaluate to false so a misspelled descriptor skips the task instead of
// running it somewhere it does not belong.
func (e *Executor) EvalCondition(condition string, vars Vars) bool {
	switch condition {
	case "", catalog.ConditionAlways:
		return true
	case catalog.ConditionIfNoGit:
		return !dirExists(filepath.Join(vars.OutputDir, ".git"))
	case catalog.ConditionIfConvex:
		for _, addon := range vars.Addons {
			if addon == convexAddon {
				return true
			}
		}
		return dirExists(filepath.Join(vars.OutputDir, convexAddon))
	case catalog.ConditionIfDocker:
		_, err := e.lookPath("docker")
		return err == nil
	default:
		return false
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RunBase runs an archetype's external base generator. The working
// directory defaults to the parent directory so commands like
// "npm create vite@latest {{projectName}}" produce the project directory
// themselves.
func (e *Executor) RunBase(ctx context.Context, base *catalog.BaseCommand, vars Vars) error {
	if base == nil {
		return nil
	}
	command := ExpandVars(base.Command, vars)
	dir := vars.ParentDir
	if base.Workdir != "" {
		dir = ExpandVars(base.Workdir, vars)
	}
	if err := e.RunShellWithSpinner(ctx, "Running base generator", dir, command); err != nil {
		return fmt.Errorf("base command failed: %w", err)
	}
	return nil
}

// RunHook runs a lifecycle hook command in the output directory. An empty
// command is a no-op, so callers can pass descriptor fields straight
// through.
func (e *Executor) RunHook(ctx context.Context, name, command string, vars Vars) error {
	if command == "" {
		return nil
	}
	expanded := ExpandVars(command, vars)
	output.Verbose(fmt.Sprintf("hook %s: %s", name, expanded))
	if err := e.RunShell(ctx, vars.OutputDir, expanded); err != nil {
		return fmt.Errorf("%s hook failed: %w", name, err)
	}
	return nil
}

// RunTasks runs each task whose condition holds, in order, inside the
// output directory. A task marked continueOnError logs its failure and
// lets the run proceed; any other failure aborts.
func (e *Executor) RunTasks(ctx context.Context, tasks []catalog.Task, vars Vars) error {
	for _, task := range tasks {
		if !e.EvalCondition(task.Condition, vars) {
			output.Verbose(fmt.Sprintf("skipping task %q (condition %s not met)", task.Name, task.Condition))
			continue
		}
		command := ExpandVars(task.Command, vars)
		if err := e.RunShellWithSpinner(ctx, task.Name, vars.OutputDir, command); err != nil {
			if task.ContinueOnError {
				output.Warn(fmt.Sprintf("Task %q failed: %v", task.Name, err))
				continue
			}
			return fmt.Errorf("task %q failed: %w", task.Name, err)
		}
	}
	return nil
}
