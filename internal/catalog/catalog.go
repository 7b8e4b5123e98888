package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bakery-sh/bakery/internal/output"
)

// CoreName is the reserved baseline slot present in every resolution.
const CoreName = "core"

// Subdirectories a template root is organized into.
const (
	archetypesDir = "archetypes"
	addonsDir     = "addons"
)

// Bundle is a resolved descriptor bound to its source directory. Builtin
// marks bundles from the first template root; later roots shadow earlier
// ones by name. Bundles are immutable once produced.
type Bundle struct {
	Descriptor *Descriptor
	Dir        string
	Builtin    bool
}

// Name returns the bundle's unique descriptor name.
func (b Bundle) Name() string {
	return b.Descriptor.Name
}

// Snapshot is the immutable result of scanning template roots. Resolution
// operates on a snapshot only, never on the filesystem.
type Snapshot struct {
	Core       Bundle
	Archetypes map[string]Bundle
	Addons     map[string]Bundle
}

// Archetype looks up an archetype bundle by name.
func (s *Snapshot) Archetype(name string) (Bundle, bool) {
	b, ok := s.Archetypes[name]
	return b, ok
}

// Addon looks up an addon bundle by name.
func (s *Snapshot) Addon(name string) (Bundle, bool) {
	b, ok := s.Addons[name]
	return b, ok
}

// ArchetypeNames returns all archetype names, sorted.
func (s *Snapshot) ArchetypeNames() []string {
	return sortedKeys(s.Archetypes)
}

// AddonNames returns all addon names, sorted.
func (s *Snapshot) AddonNames() []string {
	return sortedKeys(s.Addons)
}

func sortedKeys(m map[string]Bundle) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load scans the given template roots and builds a catalog snapshot.
// Roots layer in order: a bundle in a later root replaces a same-named
// bundle from an earlier one. The first root is the builtin root.
//
// Discovery is best-effort: subdirectories without a descriptor are skipped
// silently, malformed descriptors are reported and skipped. The reserved
// core slot always exists; when no root provides <root>/core/template.json,
// a minimal descriptor is synthesized for the first root's core directory.
func Load(roots []string) (*Snapshot, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no template roots given")
	}

	snap := &Snapshot{
		Archetypes: make(map[string]Bundle),
		Addons:     make(map[string]Bundle),
	}

	for i, root := range roots {
		builtin := i == 0

		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			output.Verbose(fmt.Sprintf("Skipping template root %s: not a directory", root))
			continue
		}

		if core, ok := loadCore(root, builtin); ok {
			snap.Core = core
		}
		discover(filepath.Join(root, archetypesDir), builtin, snap.Archetypes)
		discover(filepath.Join(root, addonsDir), builtin, snap.Addons)
	}

	if snap.Core.Descriptor == nil {
		snap.Core = Bundle{
			Descriptor: synthesizeCore(),
			Dir:        filepath.Join(roots[0], CoreName),
			Builtin:    true,
		}
	}

	return snap, nil
}

// loadCore loads <root>/core. A core directory without a descriptor still
// yields a bundle (with a synthesized descriptor) so its payload renders.
func loadCore(root string, builtin bool) (Bundle, bool) {
	dir := filepath.Join(root, CoreName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Bundle{}, false
	}

	descPath := filepath.Join(dir, DescriptorFileName)
	if _, err := os.Stat(descPath); err != nil {
		return Bundle{Descriptor: synthesizeCore(), Dir: dir, Builtin: builtin}, true
	}

	d, err := LoadDescriptor(descPath)
	if err != nil {
		output.Warn(err.Error())
		return Bundle{Descriptor: synthesizeCore(), Dir: dir, Builtin: builtin}, true
	}
	return Bundle{Descriptor: d, Dir: dir, Builtin: builtin}, true
}

// discover scans a kind directory (archetypes or addons) for immediate
// subdirectories carrying a descriptor and records them into dst, keyed by
// descriptor name.
func discover(kindDir string, builtin bool, dst map[string]Bundle) {
	entries, err := os.ReadDir(kindDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(kindDir, entry.Name())
		descPath := filepath.Join(dir, DescriptorFileName)

		if _, err := os.Stat(descPath); err != nil {
			output.Verbose(fmt.Sprintf("Skipping %s: no %s", dir, DescriptorFileName))
			continue
		}

		d, err := LoadDescriptor(descPath)
		if err != nil {
			output.Warn(err.Error())
			continue
		}

		dst[d.Name] = Bundle{Descriptor: d, Dir: dir, Builtin: builtin}
	}
}
