package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bakery-sh/bakery/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Core: catalog.Bundle{
			Descriptor: &catalog.Descriptor{
				Name:        "core",
				DisplayName: "Core",
				Description: "Baseline files shared by every project",
				Version:     "1.0.0",
			},
			Dir: "/templates/core",
		},
		Archetypes: map[string]catalog.Bundle{
			"vite-react": {
				Descriptor: &catalog.Descriptor{
					Name:         "vite-react",
					DisplayName:  "Vite + React",
					Description:  "React app on Vite",
					Version:      "1.2.0",
					Dependencies: []string{"core"},
					Prompts: []catalog.Prompt{
						{Name: "theme", Type: catalog.PromptSelect, Options: []string{"dark", "light"}},
					},
					BaseCommand: &catalog.BaseCommand{Command: "npm create vite@latest {{projectName}}"},
				},
				Dir: "/templates/archetypes/vite-react",
			},
			"astro": {
				Descriptor: &catalog.Descriptor{
					Name:        "astro",
					DisplayName: "Astro",
					Description: "Content site on Astro",
					Version:     "1.0.0",
				},
				Dir: "/templates/archetypes/astro",
			},
		},
		Addons: map[string]catalog.Bundle{
			"biome": {
				Descriptor: &catalog.Descriptor{
					Name:        "biome",
					DisplayName: "Biome",
					Description: "Lint and format with Biome",
					Version:     "2.0.0",
					Tasks: []catalog.Task{
						{Name: "Format", Command: "npx biome format --write ."},
					},
				},
				Dir: "/templates/addons/biome",
			},
		},
	}
}

func TestRenderCatalogList(t *testing.T) {
	out := renderCatalogList(testSnapshot(), "")

	assert.Contains(t, out, "Archetypes")
	assert.Contains(t, out, "Addons")
	assert.Contains(t, out, "vite-react")
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "React app on Vite")
	assert.Contains(t, out, "astro")
	assert.Contains(t, out, "biome")
	assert.Contains(t, out, "Lint and format with Biome")
}

func TestRenderCatalogListFilter(t *testing.T) {
	out := renderCatalogList(testSnapshot(), "react")

	assert.Contains(t, out, "vite-react")
	assert.NotContains(t, out, "astro")
	assert.NotContains(t, out, "Addons")
}

func TestRenderCatalogListNoMatches(t *testing.T) {
	out := renderCatalogList(testSnapshot(), "zzz")

	assert.Equal(t, "No templates match \"zzz\".\n", out)
}

func TestRenderCatalogListEmpty(t *testing.T) {
	snap := &catalog.Snapshot{
		Archetypes: map[string]catalog.Bundle{},
		Addons:     map[string]catalog.Bundle{},
	}

	assert.Equal(t, "No templates installed.\n", renderCatalogList(snap, ""))
}

func TestRenderBundleDetails(t *testing.T) {
	snap := testSnapshot()
	out := renderBundleDetails(snap.Archetypes["vite-react"], "archetype")

	assert.Contains(t, out, "Vite + React")
	assert.Contains(t, out, "vite-react")
	assert.Contains(t, out, "archetype")
	assert.Contains(t, out, "1.2.0")
	assert.Contains(t, out, "core")
	assert.Contains(t, out, "theme (select)")
	assert.Contains(t, out, "npm create vite@latest")
}

func TestRenderBundleDetailsTasks(t *testing.T) {
	snap := testSnapshot()
	out := renderBundleDetails(snap.Addons["biome"], "addon")

	assert.Contains(t, out, "Format")
	assert.NotContains(t, out, "Prompts")
	assert.NotContains(t, out, "Base command")
}

func TestFindBundle(t *testing.T) {
	snap := testSnapshot()

	b, kind, ok := findBundle(snap, "core")
	assert.True(t, ok)
	assert.Equal(t, "core", kind)
	assert.Equal(t, "core", b.Name())

	b, kind, ok = findBundle(snap, "vite-react")
	assert.True(t, ok)
	assert.Equal(t, "archetype", kind)
	assert.Equal(t, "vite-react", b.Name())

	b, kind, ok = findBundle(snap, "biome")
	assert.True(t, ok)
	assert.Equal(t, "addon", kind)
	assert.Equal(t, "biome", b.Name())

	_, _, ok = findBundle(snap, "nope")
	assert.False(t, ok)
}

func TestUnknownTemplate(t *testing.T) {
	available := []string{"vite-react", "astro", "biome"}

	assert.Contains(t, unknownTemplate("react", available), `did you mean "vite-react"`)
	assert.Contains(t, unknownTemplate("zzz", available), "available: vite-react, astro, biome")
	assert.Contains(t, unknownTemplate("react", nil), "none are installed")
}
