// Package wizard collects the prompt values template descriptors declare.
//
// Prompts are asked in declaration order across the resolved bundle list,
// and a name is only ever asked once: answers-file values pre-seed the
// result, and later bundles cannot re-ask what an earlier bundle already
// collected. With --no-input, or without an interactive terminal, every
// prompt resolves to its declared default.
package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/bakery-sh/bakery/internal/catalog"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
)

// Collector gathers prompt values for one generation run.
type Collector struct {
	answers     map[string]any
	interactive bool
	stdin       io.Reader
	stdout      io.Writer
}

// Options configures a Collector.
type Options struct {
	Answers map[string]any // pre-seeded values, typically from --answers
	NoInput bool           // never prompt, resolve every prompt to its default
	Stdin   io.Reader
	Stdout  io.Writer
}

// New creates a Collector. Prompting is only enabled when input was not
// suppressed and stdin is a terminal.
func New(opts Options) *Collector {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Collector{
		answers:     opts.Answers,
		interactive: !opts.NoInput && term.IsTerminal(int(os.Stdin.Fd())),
		stdin:       stdin,
		stdout:      stdout,
	}
}

// Interactive reports whether this collector may prompt at all. Callers
// use it to decide between asking and silently taking a fallback.
func (c *Collector) Interactive() bool {
	return c.interactive
}

// LoadAnswers reads a YAML answers file mapping prompt names to values.
func LoadAnswers(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	answers := make(map[string]any)
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", path, err)
	}
	return answers, nil
}

// Collect walks the bundles' prompt declarations in order and returns the
// collected values keyed by prompt name.
func (c *Collector) Collect(bundles []catalog.Bundle) (map[string]any, error) {
	values := make(map[string]any)
	for k, v := range c.answers {
		values[k] = v
	}

	for _, b := range bundles {
		for _, p := range b.Descriptor.Prompts {
			if _, answered := values[p.Name]; answered {
				continue
			}
			v, err := c.ask(p)
			if err != nil {
				return nil, err
			}
			values[p.Name] = v
		}
	}
	return values, nil
}

func (c *Collector) ask(p catalog.Prompt) (any, error) {
	if !c.interactive {
		return defaultValue(p), nil
	}
	switch p.Type {
	case catalog.PromptText:
		return c.askText(p)
	case catalog.PromptConfirm:
		return c.askConfirm(p), nil
	case catalog.PromptSelect:
		return c.askSelect(p)
	case catalog.PromptMultiSelect:
		return c.askMultiSelect(p)
	default:
		return defaultValue(p), nil
	}
}

// SelectOne asks a one-off select question that no descriptor declared,
// such as picking an archetype when the flag was omitted. Non-interactive
// runs take the default, or the first option.
func (c *Collector) SelectOne(message string, options []string, def string) (string, error) {
	p := catalog.Prompt{
		Name:    message,
		Type:    catalog.PromptSelect,
		Message: message,
		Options: options,
		Default: def,
	}
	if !c.interactive {
		return defaultValue(p).(string), nil
	}
	return c.askSelect(p)
}

// askConfirm reads a y/n answer from stdin. Anything except yes answers
// no; empty input takes the default.
func (c *Collector) askConfirm(p catalog.Prompt) bool {
	def := defaultBool(p)
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprint(c.stdout, promptStyle.Render(p.Message)+" "+hintStyle.Render(hint)+": ")

	reader := bufio.NewReader(c.stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return def
	}
	return line == "y" || line == "yes"
}

// defaultValue resolves the non-interactive value for a prompt.
func defaultValue(p catalog.Prompt) any {
	switch p.Type {
	case catalog.PromptConfirm:
		return defaultBool(p)
	case catalog.PromptSelect:
		if s, ok := p.Default.(string); ok {
			for _, opt := range p.Options {
				if opt == s {
					return s
				}
			}
		}
		if len(p.Options) > 0 {
			return p.Options[0]
		}
		return ""
	case catalog.PromptMultiSelect:
		return StringSlice(p.Default)
	default:
		return defaultString(p)
	}
}

func defaultString(p catalog.Prompt) string {
	if p.Default == nil {
		return ""
	}
	if s, ok := p.Default.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", p.Default)
}

func defaultBool(p catalog.Prompt) bool {
	if b, ok := p.Default.(bool); ok {
		return b
	}
	return false
}

// StringSlice normalizes a decoded JSON/YAML list into []string. Scalars
// and nil normalize to an empty slice.
func StringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return []string{}
	}
}
