package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	// PrimaryColor matches the web client's accent.
	PrimaryColor = lipgloss.Color("#6366f1")
	// IncomeColor marks money coming in.
	IncomeColor = lipgloss.Color("#22c55e")
	// ExpenseColor marks money going out and exceeded budgets.
	ExpenseColor = lipgloss.Color("#ef4444")
	// WarningColor marks budgets close to their limit.
	WarningColor = lipgloss.Color("#f59e0b")
	// SubtleColor is used for secondary text.
	SubtleColor = lipgloss.Color("#64748b")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginTop(1)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	IncomeStyle = lipgloss.NewStyle().
			Foreground(IncomeColor)

	ExpenseStyle = lipgloss.NewStyle().
			Foreground(ExpenseColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ExpenseColor)

	// CardStyle frames one summary figure.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2).
			MarginRight(1)

	CardLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	CardValueStyle = lipgloss.NewStyle().
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)
)

// toneStyle picks the style of a value by its tone.
func toneStyle(tone Tone) lipgloss.Style {
	switch tone {
	case ToneIncome:
		return IncomeStyle
	case ToneExpense:
		return ExpenseStyle
	case ToneWarning:
		return WarningStyle
	default:
		return CardValueStyle
	}
}
