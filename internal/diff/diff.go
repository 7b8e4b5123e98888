// Package diff produces styled unified diffs for conflict previews. The
// edit script comes from Myers' O(ND) algorithm; output is grouped into
// hunks with context and colored for the terminal.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Options configures diff generation. Zero values take defaults.
type Options struct {
	// Context is the number of unchanged lines shown around changes.
	// Default: 3
	Context int

	// TabWidth is the number of spaces each tab expands to. Default: 4
	TabWidth int

	// ShowLineNums displays old-file line numbers in the left margin.
	ShowLineNums bool
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	insertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	deleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// Unified renders a unified diff between two byte contents. Identical
// inputs yield an empty string. Binary content and very large files return
// a short notice instead of a diff.
func Unified(oldPath, newPath string, old, newer []byte, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Context == 0 {
		opts.Context = 3
	}
	if opts.TabWidth == 0 {
		opts.TabWidth = 4
	}

	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	oldLines := splitLines(string(old))
	newLines := splitLines(string(newer))

	if len(oldLines) > 10000 || len(newLines) > 10000 {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(oldLines), len(newLines))
	}

	edits := editScript(oldLines, newLines)
	hunks := buildHunks(edits, opts.Context)
	if len(hunks) == 0 {
		return ""
	}

	width := terminalWidth()

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newPath) + "\n")
	for _, h := range hunks {
		writeHunk(&buf, h, opts, width)
	}
	return buf.String()
}

type editKind int

const (
	editKeep editKind = iota
	editInsert
	editDelete
)

type edit struct {
	kind    editKind
	oldLine int // 1-based line in the old file, 0 for inserts
	newLine int // 1-based line in the new file, 0 for deletes
	text    string
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	edits              []edit
}

// editScript computes the shortest edit script between two line slices.
// Myers, "An O(ND) Difference Algorithm and Its Variations" (1986).
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	maxD := n + m

	v := map[int]int{1: 0}
	var trace []map[int]int

search:
	for d := 0; d <= maxD; d++ {
		snapshot := make(map[int]int, len(v))
		for k, x := range v {
			snapshot[k] = x
		}
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1] < v[k+1]) {
				x = v[k+1] // down: delete from a
			} else {
				x = v[k-1] + 1 // right: insert from b
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Backtrack through the trace, collecting edits in reverse.
	var edits []edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[k-1] < v[k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			edits = append(edits, edit{editKeep, x + 1, y + 1, a[x]})
		}
		if d > 0 {
			if x == prevX {
				y--
				edits = append(edits, edit{editInsert, 0, y + 1, b[y]})
			} else {
				x--
				edits = append(edits, edit{editDelete, x + 1, 0, a[x]})
			}
		}
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}

// buildHunks groups edits into hunks, keeping context lines around changes
// and splitting where unchanged runs exceed twice the context.
func buildHunks(edits []edit, context int) []hunk {
	var hunks []hunk
	var current *hunk

	for i, e := range edits {
		if e.kind != editKeep {
			if current == nil {
				start := i - context
				if start < 0 {
					start = 0
				}
				current = &hunk{}
				current.edits = append(current.edits, edits[start:i]...)
			}
			current.edits = append(current.edits, e)
			continue
		}

		if current == nil {
			continue
		}
		current.edits = append(current.edits, e)

		trailing := 1
		for j := i + 1; j < len(edits) && edits[j].kind == editKeep; j++ {
			trailing++
		}
		if trailing > context*2 && i < len(edits)-1 {
			trim := trailing - context
			if trim > 0 && trim <= len(current.edits) {
				current.edits = current.edits[:len(current.edits)-trim]
			}
			finalize(current)
			hunks = append(hunks, *current)
			current = nil
		}
	}

	if current != nil {
		finalize(current)
		hunks = append(hunks, *current)
	}
	return hunks
}

func finalize(h *hunk) {
	for _, e := range h.edits {
		if e.oldLine > 0 && (h.oldStart == 0 || e.oldLine < h.oldStart) {
			h.oldStart = e.oldLine
		}
		if e.newLine > 0 && (h.newStart == 0 || e.newLine < h.newStart) {
			h.newStart = e.newLine
		}
		if e.kind != editInsert {
			h.oldCount++
		}
		if e.kind != editDelete {
			h.newCount++
		}
	}
}

func writeHunk(buf *strings.Builder, h hunk, opts *Options, width int) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(hunkStyle.Render(header) + "\n")

	for _, e := range h.edits {
		text := expandTabs(e.text, opts.TabWidth)
		text = truncate(text, width-10)

		var line string
		switch e.kind {
		case editInsert:
			line = insertStyle.Render("+" + text)
		case editDelete:
			line = deleteStyle.Render("-" + text)
		default:
			line = " " + text
		}

		if opts.ShowLineNums {
			num := "    "
			if e.oldLine > 0 {
				num = fmt.Sprintf("%4d", e.oldLine)
			}
			line = lineNumStyle.Render(num) + " " + line
		}
		buf.WriteString(line + "\n")
	}
}

// isBinary checks the first 8 KiB for null bytes.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

// splitLines splits content into lines, dropping a trailing empty line
// from a final newline.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var buf strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			buf.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		} else {
			buf.WriteRune(r)
			col++
		}
	}
	return buf.String()
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth < 3 {
		return "..."[:maxWidth]
	}
	return string(runes[:maxWidth-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
