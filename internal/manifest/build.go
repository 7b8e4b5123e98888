package manifest

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// excludedDirs are never walked when building a manifest or detecting
// changes: version-control metadata, the dependency cache, and bakery's own
// state directory.
var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	StateDir:       true,
}

// managedPaths is the allow-list of infrastructure files bakery considers
// its own. Everything else defaults to unmanaged.
var managedPaths = map[string]bool{
	"biome.json":    true,
	"justfile":      true,
	"lefthook.yml":  true,
	".editorconfig": true,
	"LICENSE":       true,
	".gitignore":    true,
}

// managedPrefixes extends the allow-list to whole directories.
var managedPrefixes = []string{
	".github/workflows/",
}

// IsManaged classifies a slash-separated relative path against the managed
// allow-list.
func IsManaged(rel string) bool {
	if managedPaths[rel] {
		return true
	}
	for _, prefix := range managedPrefixes {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

// Meta carries the generation inputs recorded alongside the file entries.
type Meta struct {
	BakeryVersion string
	Archetype     string
	Addons        []string
}

// Build walks projectRoot and hashes every regular file outside the
// excluded directories into a manifest. The file map corresponds exactly
// to the tree on disk at build time.
func Build(projectRoot string, meta Meta) (*Manifest, error) {
	files := make(map[string]Entry)

	err := WalkFiles(projectRoot, func(rel, abs string) error {
		hash, err := HashFile(abs)
		if err != nil {
			return err
		}
		files[rel] = Entry{
			Hash:       hash,
			Managed:    IsManaged(rel),
			Injections: []json.RawMessage{},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	addons := meta.Addons
	if addons == nil {
		addons = []string{}
	}

	return &Manifest{
		BakeryVersion: meta.BakeryVersion,
		Archetype:     meta.Archetype,
		Addons:        addons,
		GeneratedAt:   time.Now().UTC().Truncate(time.Second),
		Files:         files,
	}, nil
}

// WalkFiles visits every regular file under root that manifest building
// covers, skipping the excluded directories at any depth. Paths passed to
// fn are slash-separated and relative to root. Change detection uses the
// same walk so manifest and disk views always partition identically.
func WalkFiles(root string, fn func(rel, abs string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), path)
	})
}

// SortedPaths returns the manifest's file paths in lexical order.
func (m *Manifest) SortedPaths() []string {
	paths := make([]string, 0, len(m.Files))
	for path := range m.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
