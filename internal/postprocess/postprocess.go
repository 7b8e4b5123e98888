// Package postprocess applies descriptor postProcess entries to a freshly
// written output directory: file removals, package.json dependency edits
// and script updates. Steps run in bundle order so later bundles adjust
// what earlier ones produced.
package postprocess

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/output"
)

// Apply runs every bundle's postProcess step against outputDir, in bundle
// order. Bundles without a postProcess entry are skipped.
func Apply(outputDir string, bundles []catalog.Bundle) error {
	for _, b := range bundles {
		step := b.Descriptor.PostProcess
		if step == nil {
			continue
		}
		if err := applyStep(outputDir, b.Name(), step); err != nil {
			return err
		}
	}
	return nil
}

func applyStep(outputDir, bundleName string, step *catalog.PostProcess) error {
	for _, rel := range step.Remove {
		target := filepath.Join(outputDir, filepath.FromSlash(rel))
		if err := os.Remove(target); err != nil {
			if os.IsNotExist(err) {
				output.Verbose(fmt.Sprintf("postProcess %s: %s already absent", bundleName, rel))
				continue
			}
			return fmt.Errorf("postProcess %s: removing %s: %w", bundleName, rel, err)
		}
		output.Verbose(fmt.Sprintf("postProcess %s: removed %s", bundleName, rel))
	}

	if !editsPackageJSON(step) {
		return nil
	}
	if err := editPackageJSON(outputDir, step); err != nil {
		return fmt.Errorf("postProcess %s: %w", bundleName, err)
	}
	return nil
}

func editsPackageJSON(step *catalog.PostProcess) bool {
	return len(step.RemoveDeps) > 0 ||
		len(step.AddDeps) > 0 ||
		len(step.AddDevDeps) > 0 ||
		len(step.UpdateScripts) > 0
}

// editPackageJSON rewrites the project's package.json. The file is decoded
// into a generic map so fields bakery does not understand survive the
// round-trip; top-level keys re-serialize sorted, which matches what the
// encoder produces for maps and keeps repeated runs stable.
func editPackageJSON(outputDir string, step *catalog.PostProcess) error {
	path := filepath.Join(outputDir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("package.json not found but dependency edits were requested")
		}
		return fmt.Errorf("reading package.json: %w", err)
	}

	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("parsing package.json: %w", err)
	}

	for _, name := range step.RemoveDeps {
		removeKey(pkg, "dependencies", name)
		removeKey(pkg, "devDependencies", name)
	}
	mergeSection(pkg, "dependencies", step.AddDeps)
	mergeSection(pkg, "devDependencies", step.AddDevDeps)
	mergeSection(pkg, "scripts", step.UpdateScripts)

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding package.json: %w", err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing package.json: %w", err)
	}
	return nil
}

func section(pkg map[string]any, key string) map[string]any {
	if m, ok := pkg[key].(map[string]any); ok {
		return m
	}
	return nil
}

func removeKey(pkg map[string]any, sectionKey, name string) {
	if m := section(pkg, sectionKey); m != nil {
		delete(m, name)
	}
}

func mergeSection(pkg map[string]any, sectionKey string, entries map[string]string) {
	if len(entries) == 0 {
		return
	}
	m := section(pkg, sectionKey)
	if m == nil {
		m = make(map[string]any, len(entries))
		pkg[sectionKey] = m
	}
	for _, name := range sortedKeys(entries) {
		m[name] = entries[name]
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
