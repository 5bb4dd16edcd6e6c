package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is a closing box summarizing a command's outcome
type Result struct {
	Type    ResultType
	Title   string
	Details []Param
	Message string // failure message, shown in red
	Hint    string // multi-line troubleshooting advice
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box. hint may span several lines.
func NewFailureResult(title, message, hint string) *Result {
	return &Result{Type: ResultFailure, Title: title, Message: message, Hint: hint, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Param) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// SetWidth sets the width for rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render returns the styled result box
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var (
		color  lipgloss.Color
		title  lipgloss.Style
		marker string
		label  string
	)
	switch r.Type {
	case ResultFailure:
		color, title, marker, label = ErrorColor, ErrorTitleStyle, FailureMarker, "FAILED"
	case ResultWarning:
		color, title, marker, label = WarningColor, WarningTitleStyle, WarningMarker, "WARNING"
	default:
		color, title, marker, label = SuccessColor, SuccessTitleStyle, SuccessMarker, "SUCCESS"
	}

	lines := []string{"", title.Render(fmt.Sprintf("   %s  %s  ─  %s", marker, label, r.Title)), ""}

	for _, d := range r.Details {
		key := ResultKeyStyle.Render("   " + d.Key + ":")
		lines = append(lines, key+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Message != "" {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Message), "")
	}

	if r.Hint != "" {
		var hint []string
		for _, line := range strings.Split(r.Hint, "\n") {
			hint = append(hint, TroubleshootingItemStyle.Render(line))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(hint, "\n")), "")
	}

	return resultBoxStyle(width, color).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
