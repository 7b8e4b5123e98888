package postprocess

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakery-sh/bakery/internal/catalog"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readPackageJSON(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	var pkg map[string]any
	require.NoError(t, json.Unmarshal(data, &pkg))
	return pkg
}

func bundle(name string, step *catalog.PostProcess) catalog.Bundle {
	return catalog.Bundle{
		Descriptor: &catalog.Descriptor{
			Name:        name,
			DisplayName: name,
			Description: name,
			PostProcess: step,
		},
	}
}

func TestApplyRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/App.css", "body {}")
	writeFile(t, dir, "src/App.tsx", "export {}")

	err := Apply(dir, []catalog.Bundle{
		bundle("tailwind", &catalog.PostProcess{
			Remove: []string{"src/App.css", "missing.txt"},
		}),
	})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "src", "App.css"))
	assert.FileExists(t, filepath.Join(dir, "src", "App.tsx"))
}

func TestApplyEditsPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
  "name": "my-app",
  "dependencies": {
    "react": "^19.0.0",
    "old-router": "^1.0.0"
  },
  "devDependencies": {
    "old-router": "^1.0.0"
  },
  "scripts": {
    "dev": "vite",
    "build": "vite build"
  }
}`)

	err := Apply(dir, []catalog.Bundle{
		bundle("router", &catalog.PostProcess{
			RemoveDeps: []string{"old-router"},
			AddDeps:    map[string]string{"@tanstack/react-router": "^1.0.0"},
			AddDevDeps: map[string]string{"@tanstack/router-plugin": "^1.0.0"},
			UpdateScripts: map[string]string{
				"dev": "vite --port 3000",
			},
		}),
	})
	require.NoError(t, err)

	pkg := readPackageJSON(t, dir)

	deps := pkg["dependencies"].(map[string]any)
	assert.NotContains(t, deps, "old-router")
	assert.Equal(t, "^19.0.0", deps["react"])
	assert.Equal(t, "^1.0.0", deps["@tanstack/react-router"])

	devDeps := pkg["devDependencies"].(map[string]any)
	assert.NotContains(t, devDeps, "old-router")
	assert.Equal(t, "^1.0.0", devDeps["@tanstack/router-plugin"])

	scripts := pkg["scripts"].(map[string]any)
	assert.Equal(t, "vite --port 3000", scripts["dev"])
	assert.Equal(t, "vite build", scripts["build"])

	// Unknown top-level fields survive the rewrite.
	assert.Equal(t, "my-app", pkg["name"])
}

func TestApplyCreatesMissingSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "bare"}`)

	err := Apply(dir, []catalog.Bundle{
		bundle("convex", &catalog.PostProcess{
			AddDeps:       map[string]string{"convex": "^1.17.0"},
			UpdateScripts: map[string]string{"dev:backend": "convex dev"},
		}),
	})
	require.NoError(t, err)

	pkg := readPackageJSON(t, dir)
	assert.Equal(t, "^1.17.0", pkg["dependencies"].(map[string]any)["convex"])
	assert.Equal(t, "convex dev", pkg["scripts"].(map[string]any)["dev:backend"])
}

func TestApplyMissingPackageJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("dependency edits fail", func(t *testing.T) {
		err := Apply(dir, []catalog.Bundle{
			bundle("broken", &catalog.PostProcess{
				AddDeps: map[string]string{"left-pad": "^1.0.0"},
			}),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "package.json not found")
	})

	t.Run("removals alone succeed", func(t *testing.T) {
		writeFile(t, dir, "README.md", "hi")
		err := Apply(dir, []catalog.Bundle{
			bundle("cleanup", &catalog.PostProcess{
				Remove: []string{"README.md"},
			}),
		})
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "README.md"))
	})
}

func TestApplyBundleOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": {}}`)

	// The second bundle overrides what the first installed.
	err := Apply(dir, []catalog.Bundle{
		bundle("first", &catalog.PostProcess{
			AddDeps: map[string]string{"pkg": "^1.0.0"},
		}),
		bundle("second", &catalog.PostProcess{
			AddDeps: map[string]string{"pkg": "^2.0.0"},
		}),
	})
	require.NoError(t, err)

	pkg := readPackageJSON(t, dir)
	assert.Equal(t, "^2.0.0", pkg["dependencies"].(map[string]any)["pkg"])
}

func TestApplyRemoveThenAddInLaterBundle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": {"eslint": "^8.0.0"}}`)

	err := Apply(dir, []catalog.Bundle{
		bundle("biome", &catalog.PostProcess{
			RemoveDeps: []string{"eslint"},
			AddDevDeps: map[string]string{"@biomejs/biome": "^1.9.0"},
		}),
	})
	require.NoError(t, err)

	pkg := readPackageJSON(t, dir)
	assert.NotContains(t, pkg["dependencies"].(map[string]any), "eslint")
	assert.Equal(t, "^1.9.0", pkg["devDependencies"].(map[string]any)["@biomejs/biome"])
}

func TestApplySkipsBundlesWithoutStep(t *testing.T) {
	dir := t.TempDir()
	err := Apply(dir, []catalog.Bundle{bundle("plain", nil)})
	require.NoError(t, err)
}

func TestApplyTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "x"}`)

	err := Apply(dir, []catalog.Bundle{
		bundle("fmt", &catalog.PostProcess{
			UpdateScripts: map[string]string{"check": "biome check ."},
		}),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.True(t, len(data) > 0 && data[len(data)-1] == '\n')
}
