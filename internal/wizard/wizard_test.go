package wizard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakery-sh/bakery/internal/catalog"
)

func promptBundle(name string, prompts ...catalog.Prompt) catalog.Bundle {
	return catalog.Bundle{
		Descriptor: &catalog.Descriptor{
			Name:        name,
			DisplayName: name,
			Description: name,
			Prompts:     prompts,
		},
	}
}

func TestLoadAnswers(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "answers.yml")
		require.NoError(t, os.WriteFile(path, []byte("theme: dark\nuseAuth: true\nfeatures:\n  - a\n  - b\n"), 0644))

		answers, err := LoadAnswers(path)
		require.NoError(t, err)
		assert.Equal(t, "dark", answers["theme"])
		assert.Equal(t, true, answers["useAuth"])
		assert.Equal(t, []any{"a", "b"}, answers["features"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAnswers(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading answers file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "answers.yml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - ]["), 0644))

		_, err := LoadAnswers(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing answers file")
	})
}

func TestCollectDefaults(t *testing.T) {
	c := New(Options{NoInput: true})

	bundles := []catalog.Bundle{
		promptBundle("app",
			catalog.Prompt{Name: "title", Type: catalog.PromptText, Message: "Title?", Default: "My App"},
			catalog.Prompt{Name: "subtitle", Type: catalog.PromptText, Message: "Subtitle?"},
			catalog.Prompt{Name: "useAuth", Type: catalog.PromptConfirm, Message: "Auth?", Default: true},
			catalog.Prompt{Name: "theme", Type: catalog.PromptSelect, Message: "Theme?", Options: []string{"light", "dark"}, Default: "dark"},
			catalog.Prompt{Name: "pm", Type: catalog.PromptSelect, Message: "Package manager?", Options: []string{"npm", "pnpm"}},
			catalog.Prompt{Name: "features", Type: catalog.PromptMultiSelect, Message: "Features?", Options: []string{"a", "b", "c"}, Default: []any{"a", "c"}},
			catalog.Prompt{Name: "extras", Type: catalog.PromptMultiSelect, Message: "Extras?", Options: []string{"x", "y"}},
		),
	}

	values, err := c.Collect(bundles)
	require.NoError(t, err)

	assert.Equal(t, "My App", values["title"])
	assert.Equal(t, "", values["subtitle"])
	assert.Equal(t, true, values["useAuth"])
	assert.Equal(t, "dark", values["theme"])
	assert.Equal(t, "npm", values["pm"], "select without default takes the first option")
	assert.Equal(t, []string{"a", "c"}, values["features"])
	assert.Equal(t, []string{}, values["extras"])
}

func TestCollectPreSeededAnswers(t *testing.T) {
	c := New(Options{
		NoInput: true,
		Answers: map[string]any{"theme": "light", "unrelated": 42},
	})

	bundles := []catalog.Bundle{
		promptBundle("app",
			catalog.Prompt{Name: "theme", Type: catalog.PromptSelect, Message: "Theme?", Options: []string{"light", "dark"}, Default: "dark"},
		),
	}

	values, err := c.Collect(bundles)
	require.NoError(t, err)

	assert.Equal(t, "light", values["theme"], "answers file beats the declared default")
	assert.Equal(t, 42, values["unrelated"], "extra answer keys are carried through")
}

func TestCollectAsksEachNameOnce(t *testing.T) {
	c := New(Options{NoInput: true})

	bundles := []catalog.Bundle{
		promptBundle("archetype",
			catalog.Prompt{Name: "theme", Type: catalog.PromptSelect, Message: "Theme?", Options: []string{"light", "dark"}, Default: "light"},
		),
		promptBundle("addon",
			catalog.Prompt{Name: "theme", Type: catalog.PromptSelect, Message: "Theme again?", Options: []string{"light", "dark"}, Default: "dark"},
		),
	}

	values, err := c.Collect(bundles)
	require.NoError(t, err)
	assert.Equal(t, "light", values["theme"], "first declaration wins")
}

func TestAskConfirm(t *testing.T) {
	confirm := catalog.Prompt{Name: "ok", Type: catalog.PromptConfirm, Message: "Proceed?", Default: true}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"YES", "YES\n", true},
		{"no", "n\n", false},
		{"anything else is no", "maybe\n", false},
		{"empty takes default", "\n", true},
		{"eof takes default", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &Collector{
				interactive: true,
				stdin:       strings.NewReader(tt.input),
				stdout:      &out,
			}
			assert.Equal(t, tt.want, c.askConfirm(confirm))
			assert.Contains(t, out.String(), "Proceed?")
		})
	}
}

func TestDefaultValue(t *testing.T) {
	tests := []struct {
		name   string
		prompt catalog.Prompt
		want   any
	}{
		{
			"select default not in options falls back to first",
			catalog.Prompt{Type: catalog.PromptSelect, Options: []string{"a", "b"}, Default: "z"},
			"a",
		},
		{
			"select without options",
			catalog.Prompt{Type: catalog.PromptSelect},
			"",
		},
		{
			"confirm non-bool default",
			catalog.Prompt{Type: catalog.PromptConfirm, Default: "yes"},
			false,
		},
		{
			"text numeric default stringified",
			catalog.Prompt{Type: catalog.PromptText, Default: 8080},
			"8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultValue(tt.prompt))
		})
	}
}

func TestSelectOneNonInteractive(t *testing.T) {
	c := New(Options{NoInput: true})

	got, err := c.SelectOne("Archetype?", []string{"vite-react", "astro"}, "astro")
	require.NoError(t, err)
	assert.Equal(t, "astro", got)

	got, err = c.SelectOne("Archetype?", []string{"vite-react", "astro"}, "")
	require.NoError(t, err)
	assert.Equal(t, "vite-react", got, "no default falls back to the first option")
}

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StringSlice([]any{"a", "b"}))
	assert.Equal(t, []string{"a"}, StringSlice([]string{"a"}))
	assert.Equal(t, []string{}, StringSlice(nil))
	assert.Equal(t, []string{}, StringSlice("scalar"))
	assert.Equal(t, []string{"1", "2"}, StringSlice([]any{1, 2}))
}
