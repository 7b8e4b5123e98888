// Package runner executes the external commands a template descriptor can
// declare: archetype base generators, beforeGenerate/afterGenerate hooks,
// and post-setup tasks.
//
// The Executor runs commands with context cancellation, an optional
// spinner, and a helpful message when a command is missing from PATH:
//
//	exec := runner.NewExecutor(nil)
//	err := exec.RunShell(ctx, projectDir, "npm install")
//
// Descriptor command strings are templated by the orchestrator, not the
// renderer: ExpandVars substitutes {{projectName}} and {{parentDir}}
// before execution. Task conditions (always, if-no-git, if-convex,
// if-docker) are evaluated against the output directory and the selected
// addon set.
//
// The command constructor and PATH lookup are injectable, so tests swap in
// mocks instead of spawning real processes.
package runner
