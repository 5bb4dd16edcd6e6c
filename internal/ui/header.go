package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line in a header or result box. Order is preserved.
type Param struct {
	Key   string
	Value string
}

// Header is the banner printed at the start of a command
type Header struct {
	Title   string  // e.g., "CONNECTIVITY CHECK"
	Command string  // e.g., "fluxvision check"
	Params  []Param // e.g., {"Server", "local"}, {"URL", "http://influx:8086"}
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the width for rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)
	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(top)
	}

	keyWidth := 0
	for _, p := range h.Params {
		keyWidth = max(keyWidth, lipgloss.Width(p.Key)+1)
	}

	lines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		key := HeaderParamKeyStyle.Render(padRight(p.Key+":", keyWidth))
		lines = append(lines, key+" "+HeaderParamValueStyle.Render(p.Value))
	}

	divider := RenderHorizontalDivider(max(width-6, 10), "─")
	content := lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
