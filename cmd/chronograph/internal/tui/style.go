// Package tui holds chronograph CLI's presentation helpers: color
// styles, a narrow render-table helper, and glamour-rendered long help
// text, grounded on the teacher's cmd/bd-examples/main.go style block
// and cmd/bd's glamour-rendered help topics.
package tui

import (
	"fmt"
	"os"
	"strings"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	OKStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	})
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	})
	FailStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	})
	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// RenderMarkdown renders md as terminal-formatted text via glamour's
// auto style (which itself consults termenv's background-color
// detection under the hood), falling back to the raw text if
// rendering fails.
func RenderMarkdown(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

// TerminalWidth reports the current stdout terminal width, falling
// back to 80 columns when stdout isn't a terminal (e.g. piped output
// or test harnesses), matching the teacher's own term.IsTerminal /
// term.GetSize fallback idiom in internal/coop/attach.go.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Table renders rows under headers as a simple column-aligned table,
// right-padding every column to its widest cell. Cells in the last
// column are truncated to fit the current terminal width when more than
// 8 columns are left for them; otherwise the line is not shortened.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if max := TerminalWidth(); len(widths) > 0 {
		fixed := 0
		for _, w := range widths[:len(widths)-1] {
			fixed += w + 2
		}
		if room := max - fixed; room > 8 && widths[len(widths)-1] > room {
			widths[len(widths)-1] = room
		}
	}

	truncate := func(s string, w int) string {
		if len(s) <= w {
			return s
		}
		if w <= 1 {
			return s[:w]
		}
		return s[:w-1] + "…"
	}

	var b strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			if i == len(cells)-1 && i < len(widths) {
				cell = truncate(cell, widths[i])
			}
			pad := widths[i] - len(cell)
			b.WriteString(style.Render(cell))
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		b.WriteString("\n")
	}
	writeRow(headers, BoldStyle)
	for _, row := range rows {
		writeRow(row, lipgloss.NewStyle())
	}
	return b.String()
}

// StatusLine formats a short "label: value" line with label muted and
// value in the accent style, matching the teacher's short diagnostic
// line idiom.
func StatusLine(label, value string) string {
	return fmt.Sprintf("%s %s", MutedStyle.Render(label+":"), AccentStyle.Render(value))
}
