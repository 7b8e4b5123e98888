package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakery-sh/bakery/internal/catalog"
	"github.com/bakery-sh/bakery/internal/render"
)

// bundle writes a source tree and returns it as a catalog bundle.
func bundle(t *testing.T, d *catalog.Descriptor, files map[string]string) catalog.Bundle {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	if d == nil {
		d = &catalog.Descriptor{Name: "test", DisplayName: "Test", Description: "Test bundle"}
	}
	return catalog.Bundle{Descriptor: d, Dir: dir}
}

func named(t *testing.T, name string, files map[string]string) catalog.Bundle {
	return bundle(t, &catalog.Descriptor{Name: name, DisplayName: name, Description: name}, files)
}

func TestComposeLaterBundleWins(t *testing.T) {
	r := render.NewRenderer()
	a := named(t, "a", map[string]string{"x.txt": "1"})
	b := named(t, "b", map[string]string{"x.txt": "2"})

	fs, err := Compose(r, []catalog.Bundle{a, b}, render.NewContext("app"))
	require.NoError(t, err)

	content, ok := fs.Get("x.txt")
	require.True(t, ok)
	assert.Equal(t, "2", string(content))
	assert.Equal(t, 1, fs.Len())
}

func TestComposeOverrideLaw(t *testing.T) {
	r := render.NewRenderer()
	core := named(t, "core", map[string]string{
		".gitignore": "node_modules\n",
		"README.md":  "core readme",
	})
	archetype := named(t, "cli", map[string]string{
		"README.md":   "cli readme",
		"src/main.ts": "main",
	})
	addon := named(t, "biome", map[string]string{
		"biome.json": "{}",
		"README.md":  "biome readme",
	})

	fs, err := Compose(r, []catalog.Bundle{core, archetype, addon}, render.NewContext("app"))
	require.NoError(t, err)

	readme, _ := fs.Get("README.md")
	assert.Equal(t, "biome readme", string(readme), "last bundle defining a path wins")
	assert.True(t, fs.Has(".gitignore"))
	assert.True(t, fs.Has("src/main.ts"))
	assert.True(t, fs.Has("biome.json"))
}

func TestComposeExcludesDescriptors(t *testing.T) {
	r := render.NewRenderer()
	b := named(t, "cli", map[string]string{
		"template.json": `{"name": "cli", "displayName": "CLI", "description": "x"}`,
		"keep.txt":      "kept",
	})

	fs, err := Compose(r, []catalog.Bundle{b}, render.NewContext("app"))
	require.NoError(t, err)
	assert.False(t, fs.Has("template.json"))
	assert.True(t, fs.Has("keep.txt"))
}

func TestComposeRendersTemplatesAgainstContext(t *testing.T) {
	r := render.NewRenderer()
	b := named(t, "cli", map[string]string{
		"package.json.tmpl": `{"name": "{{ kebabCase .Name }}"}`,
	})

	ctx := render.NewContext("MyApp")
	fs, err := Compose(r, []catalog.Bundle{b}, ctx)
	require.NoError(t, err)

	pkg, _ := fs.Get("package.json")
	assert.Equal(t, `{"name": "my-app"}`, string(pkg))
}

func TestOverlay(t *testing.T) {
	r := render.NewRenderer()
	arch := named(t, "nextjs", map[string]string{
		"overlays/app/layout.tsx.tmpl": "// {{ .Name }} layout\n",
		"overlays/biome.json":          `{"overlaid": true}`,
	})

	fileSet := render.NewFileSet()
	fileSet.Set("biome.json", []byte(`{"composed": true}`))

	require.NoError(t, Overlay(fileSet, r, arch, render.NewContext("my-app")))

	layout, ok := fileSet.Get("app/layout.tsx")
	require.True(t, ok)
	assert.Equal(t, "// my-app layout\n", string(layout))

	biome, _ := fileSet.Get("biome.json")
	assert.Equal(t, `{"overlaid": true}`, string(biome), "overlay wins over composed content")
}

func TestOverlayWithoutDirIsNoop(t *testing.T) {
	r := render.NewRenderer()
	b := named(t, "cli", map[string]string{"plain.txt": "x"})

	fileSet := render.NewFileSet()
	require.NoError(t, Overlay(fileSet, r, b, render.NewContext("app")))
	assert.Equal(t, 0, fileSet.Len())
}

func TestDryRunMatchesCompose(t *testing.T) {
	r := render.NewRenderer()
	core := named(t, "core", map[string]string{".gitignore": "node_modules\n"})
	arch := bundle(t, &catalog.Descriptor{
		Name: "nextjs", DisplayName: "Next.js", Description: "x",
		BaseCommand: &catalog.BaseCommand{Command: "npx create-next-app {{projectName}}"},
		Tasks:       []catalog.Task{{Name: "install", Command: "npm install", Condition: catalog.ConditionAlways}},
		PostProcess: &catalog.PostProcess{
			AddDeps:    map[string]string{"react": "^19.0.0"},
			AddDevDeps: map[string]string{"@biomejs/biome": "^1.9.0"},
		},
	}, map[string]string{
		"overlays/next.config.ts": "export default {}\n",
	})
	addon := bundle(t, &catalog.Descriptor{
		Name: "strip-eslint", DisplayName: "Strip ESLint", Description: "x",
		PostProcess: &catalog.PostProcess{RemoveDeps: []string{"react"}},
	}, map[string]string{"biome.json": "{}"})

	bundles := []catalog.Bundle{core, arch, addon}
	ctx := render.NewContext("my-app")

	summary, err := DryRun(r, bundles, ctx)
	require.NoError(t, err)

	// Same files the real pipeline would write, overlays included.
	paths := make(map[string]int64)
	for _, f := range summary.Files {
		paths[f.Path] = f.Size
	}
	assert.Contains(t, paths, ".gitignore")
	assert.Contains(t, paths, "biome.json")
	assert.Contains(t, paths, "next.config.ts")
	assert.Equal(t, int64(len("node_modules\n")), paths[".gitignore"])

	var total int64
	for _, f := range summary.Files {
		total += f.Size
	}
	assert.Equal(t, total, summary.TotalSize)

	assert.Equal(t, []string{"npx create-next-app {{projectName}}", "npm install"}, summary.Commands)
	assert.Equal(t, map[string]string{"@biomejs/biome": "^1.9.0"}, summary.DevDependencies)
	assert.Empty(t, summary.Dependencies, "a later bundle's removeDeps drops earlier additions")
}

func TestDryRunDeterminism(t *testing.T) {
	r := render.NewRenderer()
	core := named(t, "core", map[string]string{".gitignore": "node_modules\n", "README.md": "r"})
	addon := named(t, "biome", map[string]string{"biome.json": "{}"})
	ctx := render.NewContext("app")

	first, err := DryRun(r, []catalog.Bundle{core, addon}, ctx)
	require.NoError(t, err)
	second, err := DryRun(r, []catalog.Bundle{core, addon}, ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.TotalSize, second.TotalSize)
}
