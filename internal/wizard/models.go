package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bakery-sh/bakery/internal/catalog"
)

func (c *Collector) askText(p catalog.Prompt) (string, error) {
	m := newTextModel(p.Message, defaultString(p))
	final, err := tea.NewProgram(m, tea.WithOutput(c.stdout)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	result := final.(textModel)
	if result.cancelled {
		return "", ErrCancelled
	}
	value := strings.TrimSpace(result.input.Value())
	if value == "" {
		return defaultString(p), nil
	}
	return value, nil
}

func (c *Collector) askSelect(p catalog.Prompt) (string, error) {
	m := newSelectModel(p)
	final, err := tea.NewProgram(m, tea.WithOutput(c.stdout)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	result := final.(selectModel)
	if result.cancelled || !result.selected {
		return "", ErrCancelled
	}
	return result.options[result.cursor], nil
}

func (c *Collector) askMultiSelect(p catalog.Prompt) ([]string, error) {
	m := newMultiSelectModel(p)
	final, err := tea.NewProgram(m, tea.WithOutput(c.stdout)).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	result := final.(multiSelectModel)
	if result.cancelled || !result.done {
		return nil, ErrCancelled
	}
	picked := make([]string, 0, len(result.options))
	for i, opt := range result.options {
		if result.checked[i] {
			picked = append(picked, opt)
		}
	}
	return picked, nil
}

// textModel is the bubbletea model behind text prompts.
type textModel struct {
	message   string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newTextModel(message, placeholder string) textModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 48
	return textModel{message: message, input: ti}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.done || m.cancelled {
		value := m.input.Value()
		if value == "" {
			value = m.input.Placeholder
		}
		return promptStyle.Render(m.message) + " " + value + "\n"
	}
	return promptStyle.Render(m.message) + " " + m.input.View() + "\n"
}

// selectModel is a cursor menu over a prompt's options.
type selectModel struct {
	message   string
	options   []string
	cursor    int
	selected  bool
	cancelled bool
}

func newSelectModel(p catalog.Prompt) selectModel {
	m := selectModel{
		message: p.Message,
		options: p.Options,
	}
	if s, ok := p.Default.(string); ok {
		for i, opt := range p.Options {
			if opt == s {
				m.cursor = i
				break
			}
		}
	}
	return m
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}

		case "enter":
			m.selected = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.selected {
		return promptStyle.Render(m.message) + " " + m.options[m.cursor] + "\n"
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(m.message) + "\n")
	b.WriteString(hintStyle.Render("  [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, opt := range m.options {
		if m.cursor == i {
			b.WriteString("  " + selectedStyle.Render("> "+opt) + "\n")
		} else {
			b.WriteString("    " + opt + "\n")
		}
	}
	return b.String()
}

// multiSelectModel is a checkbox menu over a prompt's options.
type multiSelectModel struct {
	message   string
	options   []string
	cursor    int
	checked   map[int]bool
	done      bool
	cancelled bool
}

func newMultiSelectModel(p catalog.Prompt) multiSelectModel {
	m := multiSelectModel{
		message: p.Message,
		options: p.Options,
		checked: make(map[int]bool),
	}
	for _, def := range StringSlice(p.Default) {
		for i, opt := range p.Options {
			if opt == def {
				m.checked[i] = true
			}
		}
	}
	return m
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}

		case " ", "x":
			m.checked[m.cursor] = !m.checked[m.cursor]

		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	if m.done {
		picked := make([]string, 0, len(m.options))
		for i, opt := range m.options {
			if m.checked[i] {
				picked = append(picked, opt)
			}
		}
		return promptStyle.Render(m.message) + " " + strings.Join(picked, ", ") + "\n"
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(m.message) + "\n")
	b.WriteString(hintStyle.Render("  [↑/↓] Navigate    [Space] Toggle    [Enter] Confirm") + "\n\n")

	for i, opt := range m.options {
		box := "[ ]"
		if m.checked[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, opt)
		if m.cursor == i {
			b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}
