package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer prints UI components to a writer. Commands that do a single
// request use it directly; multi-step commands use a Runner.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// SetWidth overrides the terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintFailure prints a failure result box with a troubleshooting hint
func (p *Printer) PrintFailure(title, message, hint string) {
	p.Println(NewFailureResult(title, message, hint).SetWidth(p.width).Render())
}

// PrintTable prints a table
func (p *Printer) PrintTable(t *Table) {
	t.Width = p.width
	p.Println(t.Render())
}
