// Package compose merges rendered bundles into one file set and puts the
// result on disk. The merge itself is pure; only the Writer touches the
// filesystem, so dry-runs and tests share the exact pipeline that real
// generation uses.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/render"
)

// Compose renders every bundle in resolver order and merges the results.
// A later bundle wins on path collisions: an addon overriding an archetype
// default is the designed customization mechanism, not a conflict.
func Compose(r *render.Renderer, bundles []catalog.Bundle, ctx *render.Context) (*render.FileSet, error) {
	merged := render.NewFileSet()
	for _, b := range bundles {
		fs, err := r.RenderBundle(b, ctx)
		if err != nil {
			return nil, fmt.Errorf("rendering bundle %s: %w", b.Name(), err)
		}
		merged.Merge(fs)
	}
	return merged, nil
}

// Overlay renders a bundle's overlays sub-bundle, when present, and merges
// it on top of fileSet. Used after an external base generator has populated
// the output directory, so the pipeline can customize output it does not
// itself produce. A bundle without an overlays directory is a no-op.
func Overlay(fileSet *render.FileSet, r *render.Renderer, b catalog.Bundle, ctx *render.Context) error {
	dir := filepath.Join(b.Dir, render.OverlayDirName)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}

	sub := catalog.Bundle{
		Descriptor: &catalog.Descriptor{
			Name:        b.Name() + "/" + render.OverlayDirName,
			DisplayName: b.Descriptor.DisplayName,
			Description: b.Descriptor.Description,
		},
		Dir:     dir,
		Builtin: b.Builtin,
	}

	fs, err := r.RenderBundle(sub, ctx)
	if err != nil {
		return fmt.Errorf("rendering overlay of %s: %w", b.Name(), err)
	}
	fileSet.Merge(fs)
	return nil
}
