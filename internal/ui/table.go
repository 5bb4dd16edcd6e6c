package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under a header row. The last column is rendered muted
// when Muted is set, which suits trailing description columns.
type Table struct {
	Headers []string
	Rows    [][]string
	Muted   bool
	Width   int
}

// NewTable creates a table sized to the terminal
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Width: GetTerminalWidth()}
}

// AddRow appends a row
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

// Render returns the styled table
func (t *Table) Render() string {
	last := len(t.Headers) - 1
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case t.Muted && col == last:
				return TableMutedCellStyle
			default:
				return TableCellStyle
			}
		})
	if t.Width > 0 {
		tbl = tbl.Width(clampWidth(t.Width))
	}
	return tbl.String()
}

// String implements fmt.Stringer
func (t *Table) String() string {
	return t.Render()
}
