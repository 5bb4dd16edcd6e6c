package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirmation describes a destructive operation that must be acknowledged
// by typing Phrase.
type Confirmation struct {
	Title    string
	Warnings []string
	Phrase   string // e.g., "yes"
	Width    int
}

// Render returns the warning box shown before the prompt
func (c Confirmation) Render() string {
	width := clampWidth(c.Width)

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, c.Title)), ""}
	bullet := lipgloss.NewStyle().Foreground(TextColor)
	for _, w := range c.Warnings {
		lines = append(lines, bullet.Render("   • "+w))
	}
	lines = append(lines, "")

	return resultBoxStyle(width, WarningColor).Render(strings.Join(lines, "\n"))
}

// Ask prints the warning box to out and reads one line from in. It returns
// true only when the line matches Phrase exactly, ignoring surrounding space.
func (c Confirmation) Ask(in io.Reader, out io.Writer) bool {
	if c.Width == 0 {
		c.Width = GetTerminalWidth()
	}
	_, _ = fmt.Fprintln(out, c.Render())
	_, _ = fmt.Fprintln(out)

	prompt := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	_, _ = fmt.Fprint(out, prompt.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", c.Phrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}
	if strings.TrimSpace(input) == c.Phrase {
		return true
	}

	_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
