package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fluxvision/internal/connect"
	"github.com/muurk/fluxvision/internal/version"
)

// Application branding constants
const (
	AppName   = "FLUXVISION"
	GitHubURL = "github.com/muurk/fluxvision"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 120

	// contentTop and contentLeft locate the first cell of screen content
	// inside RenderApplicationContainer: the outer border, the header line
	// and its bottom rule sit above it.
	contentTop  = 3
	contentLeft = 1

	// contentIndent is the left padding every screen applies to its content
	contentIndent = 2
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = lipgloss.Color("#7D56F4")
	HighlightColor = lipgloss.Color("#43BF6D")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	ContentStyle = lipgloss.NewStyle().
			PaddingLeft(contentIndent)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(8)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(8)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	// TriggerStyle is the closed dropdown control
	TriggerStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("236"))

	OptionStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	HighlightedOptionStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)
)

// noticeStyle returns the bordered box used for connector status messages
func noticeStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}

// RenderNotice renders the connector status beneath the form. Idle renders
// nothing.
func RenderNotice(status connect.Status, message string) string {
	switch status {
	case connect.StatusChecking:
		return noticeStyle(WarningColor).Render("● " + message)
	case connect.StatusOK:
		return noticeStyle(SecondaryColor).Render("✓ " + message)
	case connect.StatusError:
		return noticeStyle(ErrorColor).Render("✗ " + message)
	default:
		return ""
	}
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// BuildHeaderContent creates header content with app name, version and the
// backend in use.
func BuildHeaderContent(backend string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(backend)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen: header, content and a
// footer with help text, inside a border filling the terminal.
//
// Screen content starts at (contentLeft, contentTop); mouse hit regions are
// computed from that origin.
func RenderApplicationContainer(content, footerText, backend string, terminalWidth, terminalHeight int) string {
	terminalWidth = max(terminalWidth, MinTerminalWidth)
	terminalHeight = max(terminalHeight, 12)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(BorderColor).
		Width(terminalWidth-2).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(BorderColor).
		Width(terminalWidth-2).
		Padding(0, 1)

	header := headerStyle.Render(BuildHeaderContent(backend))
	footer := footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText))

	// Pin the footer to the bottom of the border.
	bodyHeight := terminalHeight - 2 - lipgloss.Height(header) - lipgloss.Height(footer)
	body := lipgloss.NewStyle().
		Width(terminalWidth - 2).
		Height(max(bodyHeight, 1)).
		MaxHeight(max(bodyHeight, 1)).
		Render(content)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}
