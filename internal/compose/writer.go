package compose

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bakery-sh/bakery/internal/diff"
	"github.com/bakery-sh/bakery/internal/manifest"
	"github.com/bakery-sh/bakery/internal/render"
)

// ErrHashMismatch reports that a file on disk does not match the content
// the pipeline rendered for it. This is an implementation bug or concurrent
// mutation of the output directory; it must never be silently swallowed.
var ErrHashMismatch = errors.New("content hash mismatch after write")

// ConflictPolicy decides what happens when an output path already exists.
type ConflictPolicy int

const (
	// Fail aborts the write on the first conflict. The default.
	Fail ConflictPolicy = iota
	// Overwrite replaces existing files.
	Overwrite
	// Skip leaves existing files untouched and writes the rest.
	Skip
	// ShowDiff prints a diff for every conflict, then aborts.
	ShowDiff
)

// PolicyFromFlags maps the CLI conflict flags onto a policy.
// Returns an error if --force is combined with --skip-existing or --diff.
func PolicyFromFlags(force, skip, showDiff bool) (ConflictPolicy, error) {
	if force && (skip || showDiff) {
		return Fail, fmt.Errorf("--force cannot be combined with --skip-existing or --diff")
	}
	switch {
	case force:
		return Overwrite, nil
	case skip:
		return Skip, nil
	case showDiff:
		return ShowDiff, nil
	default:
		return Fail, nil
	}
}

// WriteOptions configures a file-set write.
type WriteOptions struct {
	Policy ConflictPolicy
	Out    io.Writer // conflict diffs; defaults to os.Stdout
}

// WriteResult reports which paths a write touched and which it left alone.
type WriteResult struct {
	Written []string
	Skipped []string
}

// Write puts a file set on disk under outputDir. Conflicts are resolved
// up front according to the policy, then every remaining file is written
// with its parent directories created as needed. Paths in the set are
// slash-separated and relative; writes land at outputDir/path.
func Write(fileSet *render.FileSet, outputDir string, opts WriteOptions) (*WriteResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	skip := make(map[string]bool)

	for _, rel := range fileSet.Paths() {
		target := filepath.Join(outputDir, filepath.FromSlash(rel))
		existing, err := os.ReadFile(target)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("checking %s: %w", rel, err)
		}

		switch opts.Policy {
		case Overwrite:
			// Replaced below.
		case Skip:
			skip[rel] = true
		case ShowDiff:
			content, _ := fileSet.Get(rel)
			if d := diff.Unified(rel, rel, existing, content, nil); d != "" {
				fmt.Fprintln(opts.Out, d)
			}
			return nil, fmt.Errorf("file already exists: %s", target)
		default:
			return nil, fmt.Errorf("file already exists: %s", target)
		}
	}

	result := &WriteResult{}
	for _, rel := range fileSet.Paths() {
		if skip[rel] {
			result.Skipped = append(result.Skipped, rel)
			continue
		}
		content, _ := fileSet.Get(rel)
		target := filepath.Join(outputDir, filepath.FromSlash(rel))

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", rel, err)
		}
		result.Written = append(result.Written, rel)
	}

	return result, nil
}

// Verify re-reads every written path and compares content digests against
// the in-memory file set. Skipped paths are exempt. A mismatch returns
// ErrHashMismatch wrapped with the offending path.
func Verify(fileSet *render.FileSet, outputDir string, skipped []string) error {
	skip := make(map[string]bool, len(skipped))
	for _, rel := range skipped {
		skip[rel] = true
	}

	for _, rel := range fileSet.Paths() {
		if skip[rel] {
			continue
		}
		content, _ := fileSet.Get(rel)

		onDisk, err := manifest.HashFile(filepath.Join(outputDir, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("verifying %s: %w", rel, err)
		}
		if onDisk != manifest.HashBytes(content) {
			return fmt.Errorf("%s: %w", rel, ErrHashMismatch)
		}
	}
	return nil
}
