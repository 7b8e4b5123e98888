package compose

import (
	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/render"
)

// FileInfo describes one file a generation would write.
type FileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Summary is the result of a dry run: the files that would be written plus
// the external commands and package.json changes the bundles declare.
type Summary struct {
	Files           []FileInfo        `json:"files"`
	TotalSize       int64             `json:"totalSize"`
	Commands        []string          `json:"commands"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DryRun executes the identical compose pipeline (including overlays) and
// folds the result into a summary instead of writing. Preview and actual
// output cannot drift because they share the code path.
func DryRun(r *render.Renderer, bundles []catalog.Bundle, ctx *render.Context) (*Summary, error) {
	fileSet, err := Compose(r, bundles, ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bundles {
		if err := Overlay(fileSet, r, b, ctx); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Files:           make([]FileInfo, 0, fileSet.Len()),
		Commands:        []string{},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}

	for _, path := range fileSet.Paths() {
		content, _ := fileSet.Get(path)
		summary.Files = append(summary.Files, FileInfo{Path: path, Size: int64(len(content))})
		summary.TotalSize += int64(len(content))
	}

	for _, b := range bundles {
		d := b.Descriptor
		if d.BaseCommand != nil {
			summary.Commands = append(summary.Commands, d.BaseCommand.Command)
		}
		for _, task := range d.Tasks {
			summary.Commands = append(summary.Commands, task.Command)
		}
		if d.PostProcess == nil {
			continue
		}
		for name, version := range d.PostProcess.AddDeps {
			summary.Dependencies[name] = version
		}
		for name, version := range d.PostProcess.AddDevDeps {
			summary.DevDependencies[name] = version
		}
		for _, name := range d.PostProcess.RemoveDeps {
			delete(summary.Dependencies, name)
			delete(summary.DevDependencies, name)
		}
	}

	return summary, nil
}
