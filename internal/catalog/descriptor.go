// Package catalog loads template descriptors from a filesystem layout into
// in-memory records. Descriptors are authored as JSONC (JSON extended with
// comments and trailing commas); one malformed template never breaks
// discovery of the rest.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// DescriptorFileName is the metadata file every template bundle carries.
const DescriptorFileName = "template.json"

// Prompt types a descriptor may declare.
const (
	PromptText        = "text"
	PromptSelect      = "select"
	PromptMultiSelect = "multiselect"
	PromptConfirm     = "confirm"
)

// Task conditions a descriptor may declare.
const (
	ConditionAlways   = "always"
	ConditionIfNoGit  = "if-no-git"
	ConditionIfConvex = "if-convex"
	ConditionIfDocker = "if-docker"
)

// Descriptor is the parsed, validated form of a template.json file.
type Descriptor struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	Description  string            `json:"description"`
	Version      string            `json:"version,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty"`
	Prompts      []Prompt          `json:"prompts,omitempty"`
	Files        []string          `json:"files,omitempty"`
	Exclude      []string          `json:"exclude,omitempty"`
	BaseCommand  *BaseCommand      `json:"baseCommand,omitempty"`
	PostProcess  *PostProcess      `json:"postProcess,omitempty"`
	Hooks        Hooks             `json:"hooks,omitempty"`
	Tasks        []Task            `json:"tasks,omitempty"`
	Injections   []json.RawMessage `json:"injections,omitempty"`
}

// Prompt declares one value the wizard collects before rendering.
type Prompt struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Default any      `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

// BaseCommand is an external generator an archetype delegates to. The
// command string supports {{projectName}} and {{parentDir}} substitution,
// performed by the orchestrator before execution.
type BaseCommand struct {
	Command string `json:"command"`
	Workdir string `json:"workdir,omitempty"`
}

// PostProcess describes edits applied to the output directory after the
// file set is written: file removals and package.json adjustments.
type PostProcess struct {
	Remove        []string          `json:"remove,omitempty"`
	RemoveDeps    []string          `json:"removeDeps,omitempty"`
	AddDeps       map[string]string `json:"addDeps,omitempty"`
	AddDevDeps    map[string]string `json:"addDevDeps,omitempty"`
	UpdateScripts map[string]string `json:"updateScripts,omitempty"`
}

// Hooks are shell commands run in the output directory around generation.
type Hooks struct {
	BeforeGenerate string `json:"beforeGenerate,omitempty"`
	AfterGenerate  string `json:"afterGenerate,omitempty"`
}

// Task is a post-setup command offered by a bundle, gated by a condition.
type Task struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Command         string `json:"command"`
	Condition       string `json:"condition,omitempty"`
	ContinueOnError bool   `json:"continueOnError,omitempty"`
}

// DescriptorError reports a malformed or invalid descriptor file. Discovery
// treats it as a diagnostic and skips the template, never as a fatal error.
type DescriptorError struct {
	Path string
	Msg  string
	Err  error
}

func (e *DescriptorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("descriptor %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("descriptor %s: %s", e.Path, e.Msg)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// ParseDescriptor strips JSONC comments and trailing commas from data, then
// unmarshals and validates the result. The path is used in diagnostics only.
func ParseDescriptor(path string, data []byte) (*Descriptor, error) {
	stripped := jsonc.ToJSON(data)

	var d Descriptor
	if err := json.Unmarshal(stripped, &d); err != nil {
		return nil, &DescriptorError{Path: path, Msg: "invalid JSON", Err: err}
	}

	if err := d.validate(path); err != nil {
		return nil, err
	}
	d.applyDefaults()

	return &d, nil
}

// LoadDescriptor reads and parses a descriptor file from disk.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DescriptorError{Path: path, Msg: "cannot read", Err: err}
	}
	return ParseDescriptor(path, data)
}

func (d *Descriptor) validate(path string) error {
	if d.Name == "" {
		return &DescriptorError{Path: path, Msg: "missing required field 'name'"}
	}
	if d.DisplayName == "" {
		return &DescriptorError{Path: path, Msg: "missing required field 'displayName'"}
	}
	if d.Description == "" {
		return &DescriptorError{Path: path, Msg: "missing required field 'description'"}
	}

	for _, p := range d.Prompts {
		switch p.Type {
		case PromptText, PromptSelect, PromptMultiSelect, PromptConfirm:
		default:
			return &DescriptorError{Path: path, Msg: fmt.Sprintf("prompt %q: unknown type %q", p.Name, p.Type)}
		}
		if p.Name == "" {
			return &DescriptorError{Path: path, Msg: "prompt with empty name"}
		}
		if (p.Type == PromptSelect || p.Type == PromptMultiSelect) && len(p.Options) == 0 {
			return &DescriptorError{Path: path, Msg: fmt.Sprintf("prompt %q: %s requires options", p.Name, p.Type)}
		}
	}

	for _, t := range d.Tasks {
		if t.Command == "" {
			return &DescriptorError{Path: path, Msg: fmt.Sprintf("task %q: missing command", t.Name)}
		}
		switch t.Condition {
		case "", ConditionAlways, ConditionIfNoGit, ConditionIfConvex, ConditionIfDocker:
		default:
			return &DescriptorError{Path: path, Msg: fmt.Sprintf("task %q: unknown condition %q", t.Name, t.Condition)}
		}
	}

	if d.BaseCommand != nil && d.BaseCommand.Command == "" {
		return &DescriptorError{Path: path, Msg: "baseCommand with empty command"}
	}

	return nil
}

func (d *Descriptor) applyDefaults() {
	if d.Version == "" {
		d.Version = "1.0.0"
	}
	if d.Exclude == nil {
		d.Exclude = []string{}
	}
	for i := range d.Tasks {
		if d.Tasks[i].Condition == "" {
			d.Tasks[i].Condition = ConditionAlways
		}
	}
}

// synthesizeCore builds the minimal descriptor substituted for the reserved
// core slot when no descriptor file exists, so every resolution has a
// baseline bundle.
func synthesizeCore() *Descriptor {
	return &Descriptor{
		Name:        "core",
		DisplayName: "Core",
		Description: "Baseline files shared by every project",
		Version:     "1.0.0",
		Exclude:     []string{},
	}
}
