// Package resolve turns an archetype choice and addon selections into a
// deterministic, duplicate-free, ordered list of template bundles.
package resolve

import (
	"github.com/bakery-sh/bakery/internal/catalog"
)

// Resolve produces the ordered bundle list for one generation:
// core first, then the archetype's dependencies in declaration order
// (depth-first, each inserted before its dependent), then the archetype
// itself, then addons in caller order.
//
// An unknown archetype yields [core] only; callers decide whether that is a
// user-facing failure. Unknown dependency and addon names are skipped
// silently. The result is a pure function of its inputs: identical inputs
// always yield an identical list, and no bundle name repeats.
func Resolve(archetype string, addons []string, snap *catalog.Snapshot) []catalog.Bundle {
	bundles := []catalog.Bundle{snap.Core}
	seen := map[string]bool{snap.Core.Name(): true}

	if arch, ok := snap.Archetype(archetype); ok {
		for _, dep := range arch.Descriptor.Dependencies {
			bundles = appendDependency(bundles, dep, snap, seen)
		}
		if !seen[arch.Name()] {
			seen[arch.Name()] = true
			bundles = append(bundles, arch)
		}
	}

	for _, id := range addons {
		addon, ok := snap.Addon(id)
		if !ok || seen[addon.Name()] {
			continue
		}
		seen[addon.Name()] = true
		bundles = append(bundles, addon)
	}

	return bundles
}

// appendDependency inserts the named dependency bundle, preceded by its own
// dependencies. Names are looked up among addons first, then archetypes.
// The seen set breaks cycles and repeated references.
func appendDependency(bundles []catalog.Bundle, name string, snap *catalog.Snapshot, seen map[string]bool) []catalog.Bundle {
	if seen[name] {
		return bundles
	}

	dep, ok := snap.Addon(name)
	if !ok {
		dep, ok = snap.Archetype(name)
	}
	if !ok {
		return bundles
	}

	// Mark before recursing so a cyclic reference terminates.
	seen[dep.Name()] = true
	for _, sub := range dep.Descriptor.Dependencies {
		bundles = appendDependency(bundles, sub, snap, seen)
	}
	return append(bundles, dep)
}
