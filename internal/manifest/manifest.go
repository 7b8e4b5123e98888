// Package manifest hashes a generated project tree into a persistable
// record and reads it back for change detection. The manifest lives at
// .bakery/manifest.json inside the project.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// StateDir is the tool's internal state directory inside a project.
	StateDir = ".bakery"

	// FileName is the manifest file name inside StateDir.
	FileName = "manifest.json"
)

// ErrNotFound is returned by Load when the project has no manifest.
var ErrNotFound = errors.New("manifest not found")

// Entry records one generated file: its content digest, whether bakery
// considers it managed infrastructure, and reserved injection records.
type Entry struct {
	Hash       string            `json:"hash"`
	Managed    bool              `json:"managed"`
	Injections []json.RawMessage `json:"injections"`
}

// Manifest is the persisted record of one generation run.
type Manifest struct {
	BakeryVersion string           `json:"bakeryVersion"`
	Archetype     string           `json:"archetype"`
	Addons        []string         `json:"addons"`
	GeneratedAt   time.Time        `json:"generatedAt"`
	Files         map[string]Entry `json:"files"`
}

// Path returns the manifest location for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, StateDir, FileName)
}

// Load reads the manifest of a project. Returns ErrNotFound when the file
// does not exist.
func Load(projectRoot string) (*Manifest, error) {
	data, err := os.ReadFile(Path(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest under the project's state directory. The write
// goes through a temp file and rename so a crash never leaves a truncated
// manifest behind. Serialization is byte-stable: map keys sort and the
// timestamp is second-precision UTC.
func (m *Manifest) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, FileName+".tmp*")
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
