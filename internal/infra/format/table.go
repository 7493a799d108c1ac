package format

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

//nolint:gochecknoglobals
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Bold(true)
)

// Table is tabular text output with an optional footer line.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Render returns the table as text.
func (t Table) Render() string {
	if len(t.Rows) == 0 && t.Empty != "" {
		return t.Empty
	}

	out := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(t.Headers...).
		Rows(t.Rows...).
		Render()

	if t.Footer != "" {
		out += "\n" + footerStyle.Render(t.Footer)
	}

	return out
}

// String implements fmt.Stringer.
func (t Table) String() string {
	return t.Render()
}
