package drift

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	managedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Report renders a grouped, styled drift summary for terminal display.
// Unchanged files appear only in the closing count line.
func Report(changes []Change) string {
	var buf strings.Builder

	writeGroup(&buf, changes, Modified, modifiedStyle, "~")
	writeGroup(&buf, changes, Added, addedStyle, "+")
	writeGroup(&buf, changes, Removed, removedStyle, "-")

	counts := Count(changes)
	if counts[Modified] == 0 && counts[Added] == 0 && counts[Removed] == 0 {
		buf.WriteString("No drift detected.\n")
	}
	buf.WriteString(dimStyle.Render(fmt.Sprintf(
		"%d modified, %d added, %d removed, %d unchanged",
		counts[Modified], counts[Added], counts[Removed], counts[Unchanged],
	)))
	buf.WriteString("\n")

	return buf.String()
}

func writeGroup(buf *strings.Builder, changes []Change, typ ChangeType, style lipgloss.Style, marker string) {
	var lines []string
	for _, c := range changes {
		if c.Type != typ {
			continue
		}
		line := fmt.Sprintf("  %s %s", marker, c.Path)
		if c.Managed {
			line += " " + managedStyle.Render("(managed)")
		}
		lines = append(lines, style.Render(line))
	}
	if len(lines) == 0 {
		return
	}

	header := strings.ToUpper(string(typ)[:1]) + string(typ)[1:]
	buf.WriteString(style.Bold(true).Render(header) + "\n")
	for _, line := range lines {
		buf.WriteString(line + "\n")
	}
	buf.WriteString("\n")
}

// ReportJSON encodes the change records for tooling.
func ReportJSON(changes []Change) ([]byte, error) {
	data, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding drift report: %w", err)
	}
	return append(data, '\n'), nil
}
