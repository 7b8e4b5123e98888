// Package drift compares a persisted manifest against the current project
// tree and classifies every path as added, removed, modified or unchanged.
// Deciding what to do with the classification is the caller's business.
package drift

import (
	"fmt"
	"sort"

	"github.com/bakery-sh/bakery/internal/manifest"
)

// ChangeType classifies one path in a drift report.
type ChangeType string

const (
	Added     ChangeType = "added"
	Removed   ChangeType = "removed"
	Modified  ChangeType = "modified"
	Unchanged ChangeType = "unchanged"
)

// Change records the classification of a single path.
type Change struct {
	Path    string     `json:"path"`
	Type    ChangeType `json:"type"`
	OldHash string     `json:"oldHash,omitempty"`
	NewHash string     `json:"newHash,omitempty"`
	Managed bool       `json:"managed,omitempty"`
}

// Detect classifies the union of manifest paths and on-disk paths under
// projectRoot. Every path in either set appears in the result exactly once,
// sorted lexically. Calling Detect without a manifest is a caller error.
func Detect(projectRoot string, m *manifest.Manifest) ([]Change, error) {
	if m == nil {
		return nil, fmt.Errorf("detect called without a manifest")
	}

	onDisk := make(map[string]string)
	err := manifest.WalkFiles(projectRoot, func(rel, abs string) error {
		onDisk[rel] = abs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", projectRoot, err)
	}

	changes := make([]Change, 0, len(m.Files)+len(onDisk))

	for path, entry := range m.Files {
		abs, exists := onDisk[path]
		if !exists {
			changes = append(changes, Change{
				Path:    path,
				Type:    Removed,
				OldHash: entry.Hash,
				Managed: entry.Managed,
			})
			continue
		}
		delete(onDisk, path)

		current, err := manifest.HashFile(abs)
		if err != nil {
			return nil, err
		}
		if current == entry.Hash {
			changes = append(changes, Change{
				Path:    path,
				Type:    Unchanged,
				OldHash: entry.Hash,
				NewHash: current,
				Managed: entry.Managed,
			})
		} else {
			changes = append(changes, Change{
				Path:    path,
				Type:    Modified,
				OldHash: entry.Hash,
				NewHash: current,
				Managed: entry.Managed,
			})
		}
	}

	// Whatever is left on disk was never recorded.
	for path, abs := range onDisk {
		current, err := manifest.HashFile(abs)
		if err != nil {
			return nil, err
		}
		changes = append(changes, Change{
			Path:    path,
			Type:    Added,
			NewHash: current,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes, nil
}

// Count tallies changes by type.
func Count(changes []Change) map[ChangeType]int {
	counts := make(map[ChangeType]int)
	for _, c := range changes {
		counts[c.Type]++
	}
	return counts
}
