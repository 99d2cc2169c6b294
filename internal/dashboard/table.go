package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const cellGap = 2

// NewTable returns a borderless table with a styled header row. Columns are
// sized by display width, so colored cells stay aligned with plain ones.
// tone, when non-nil, picks the color of each data cell.
func NewTable(tone func(row, col int) Tone, headers ...string) *table.Table {
	last := len(headers) - 1
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle()
			if row == table.HeaderRow {
				s = TableHeaderStyle
			} else if tone != nil {
				if t := tone(row, col); t != ToneNeutral {
					s = toneStyle(t)
				}
			}
			if col < last {
				s = s.PaddingRight(cellGap)
			}
			return s
		})
}
