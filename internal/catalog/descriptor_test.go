package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		errContains string
		check       func(t *testing.T, d *Descriptor)
	}{
		{
			name:  "minimal valid descriptor",
			input: `{"name": "cli", "displayName": "CLI Tool", "description": "A command-line tool"}`,
			check: func(t *testing.T, d *Descriptor) {
				assert.Equal(t, "cli", d.Name)
				assert.Equal(t, "CLI Tool", d.DisplayName)
				assert.Equal(t, "1.0.0", d.Version)
				assert.Empty(t, d.Exclude)
			},
		},
		{
			name: "jsonc comments and trailing commas",
			input: `{
				// the name is the unique id
				"name": "api",
				"displayName": "API Service",
				"description": "REST API service", /* inline */
				"dependencies": ["typescript",],
			}`,
			check: func(t *testing.T, d *Descriptor) {
				assert.Equal(t, "api", d.Name)
				assert.Equal(t, []string{"typescript"}, d.Dependencies)
			},
		},
		{
			name: "full descriptor",
			input: `{
				"name": "nextjs",
				"displayName": "Next.js App",
				"description": "Next.js application",
				"version": "2.1.0",
				"dependencies": ["typescript", "react"],
				"prompts": [
					{"name": "useApp", "type": "confirm", "message": "Use app router?", "default": true},
					{"name": "style", "type": "select", "message": "Styling?", "options": ["css", "tailwind"]}
				],
				"exclude": ["_partials/**"],
				"baseCommand": {"command": "npx create-next-app {{projectName}}", "workdir": "{{parentDir}}"},
				"postProcess": {
					"remove": ["src/app/favicon.ico"],
					"removeDeps": ["eslint"],
					"addDevDeps": {"@biomejs/biome": "^1.9.0"},
					"updateScripts": {"lint": "biome check ."}
				},
				"hooks": {"afterGenerate": "echo done"},
				"tasks": [
					{"name": "install", "command": "npm install"},
					{"name": "git", "command": "git init", "condition": "if-no-git", "continueOnError": true}
				]
			}`,
			check: func(t *testing.T, d *Descriptor) {
				assert.Equal(t, "2.1.0", d.Version)
				require.NotNil(t, d.BaseCommand)
				assert.Equal(t, "npx create-next-app {{projectName}}", d.BaseCommand.Command)
				require.NotNil(t, d.PostProcess)
				assert.Equal(t, "^1.9.0", d.PostProcess.AddDevDeps["@biomejs/biome"])
				assert.Equal(t, "echo done", d.Hooks.AfterGenerate)
				require.Len(t, d.Tasks, 2)
				assert.Equal(t, ConditionAlways, d.Tasks[0].Condition)
				assert.Equal(t, ConditionIfNoGit, d.Tasks[1].Condition)
				assert.True(t, d.Tasks[1].ContinueOnError)
			},
		},
		{
			name:        "missing name",
			input:       `{"displayName": "X", "description": "Y"}`,
			wantErr:     true,
			errContains: "missing required field 'name'",
		},
		{
			name:        "missing displayName",
			input:       `{"name": "x", "description": "Y"}`,
			wantErr:     true,
			errContains: "missing required field 'displayName'",
		},
		{
			name:        "missing description",
			input:       `{"name": "x", "displayName": "X"}`,
			wantErr:     true,
			errContains: "missing required field 'description'",
		},
		{
			name:        "invalid JSON",
			input:       `{"name": `,
			wantErr:     true,
			errContains: "invalid JSON",
		},
		{
			name:        "unknown prompt type",
			input:       `{"name": "x", "displayName": "X", "description": "Y", "prompts": [{"name": "p", "type": "slider", "message": "?"}]}`,
			wantErr:     true,
			errContains: "unknown type",
		},
		{
			name:        "select without options",
			input:       `{"name": "x", "displayName": "X", "description": "Y", "prompts": [{"name": "p", "type": "select", "message": "?"}]}`,
			wantErr:     true,
			errContains: "requires options",
		},
		{
			name:        "unknown task condition",
			input:       `{"name": "x", "displayName": "X", "description": "Y", "tasks": [{"name": "t", "command": "ls", "condition": "sometimes"}]}`,
			wantErr:     true,
			errContains: "unknown condition",
		},
		{
			name:        "task without command",
			input:       `{"name": "x", "displayName": "X", "description": "Y", "tasks": [{"name": "t"}]}`,
			wantErr:     true,
			errContains: "missing command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDescriptor("test/template.json", []byte(tt.input))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				var de *DescriptorError
				assert.ErrorAs(t, err, &de)
				assert.Nil(t, d)
			} else {
				require.NoError(t, err)
				require.NotNil(t, d)
				tt.check(t, d)
			}
		})
	}
}

func TestLoadDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DescriptorFileName)

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadDescriptor(path)
		require.Error(t, err)
		var de *DescriptorError
		assert.ErrorAs(t, err, &de)
	})

	t.Run("reads from disk", func(t *testing.T) {
		content := `{"name": "cli", "displayName": "CLI", "description": "A CLI"}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		d, err := LoadDescriptor(path)
		require.NoError(t, err)
		assert.Equal(t, "cli", d.Name)
	})
}

func TestSynthesizeCore(t *testing.T) {
	d := synthesizeCore()
	assert.Equal(t, CoreName, d.Name)
	assert.Equal(t, "1.0.0", d.Version)
	assert.Empty(t, d.Dependencies)
	assert.Empty(t, d.Prompts)
}
