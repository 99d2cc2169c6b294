package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer draws view models to a terminal. It owns the charts of the last
// render and disposes them before drawing the next one.
type Renderer struct {
	out        io.Writer
	chartWidth int
	charts     []*BarChart
}

func NewRenderer(out io.Writer, chartWidth int) *Renderer {
	if chartWidth <= 0 {
		chartWidth = 40
	}
	return &Renderer{out: out, chartWidth: chartWidth}
}

// Charts returns the charts created by the last render.
func (r *Renderer) Charts() []*BarChart {
	return append([]*BarChart(nil), r.charts...)
}

// Close disposes the charts still owned by the renderer.
func (r *Renderer) Close() {
	r.disposeCharts()
}

func (r *Renderer) disposeCharts() {
	for _, c := range r.charts {
		c.Dispose()
	}
	r.charts = nil
}

// Render draws the whole dashboard.
func (r *Renderer) Render(vm ViewModel) error {
	r.disposeCharts()
	r.charts = []*BarChart{
		NewBarChart("Spending by category", vm.CategoryBars, r.chartWidth),
		NewBarChart("Monthly trend", vm.TrendBars, r.chartWidth),
	}

	sections := []string{
		RenderCards(vm.Cards),
		TitleStyle.Render("Recent transactions"),
		RenderTransactions(vm.Recent),
		TitleStyle.Render("Budgets"),
		RenderBudgets(vm.Budgets),
	}
	for _, c := range r.charts {
		out, err := c.Render()
		if err != nil {
			return err
		}
		sections = append(sections, out)
	}
	if !vm.UpdatedAt.IsZero() {
		sections = append(sections, SubtleStyle.Render(fmt.Sprintf("updated %s · %d categories",
			vm.UpdatedAt.Format("2006-01-02 15:04:05"), vm.Categories)))
	}

	_, err := fmt.Fprintln(r.out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

// RenderCards lays the summary cards out side by side.
func RenderCards(cards []SummaryCard) string {
	boxes := make([]string, 0, len(cards))
	for _, c := range cards {
		boxes = append(boxes, CardStyle.Render(
			CardLabelStyle.Render(c.Label)+"\n"+toneStyle(c.Tone).Bold(true).Render(c.Value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// RenderTransactions draws the transactions as an aligned table.
func RenderTransactions(rows []TransactionRow) string {
	if len(rows) == 0 {
		return SubtleStyle.Render("  no transactions")
	}
	t := NewTable(func(row, col int) Tone {
		if col == 4 {
			return rows[row].Tone
		}
		return ToneNeutral
	}, "ID", "Date", "Description", "Category", "Amount")
	for _, r := range rows {
		t.Row(strconv.FormatInt(r.ID, 10), r.Date, r.Description, r.Category, r.Amount)
	}
	return t.Render()
}

// RenderBudgets draws one progress line per budget.
func RenderBudgets(rows []BudgetRow) string {
	if len(rows) == 0 {
		return SubtleStyle.Render("  no budgets")
	}
	t := NewTable(func(row, col int) Tone {
		if col == 2 || col == 4 {
			return rows[row].Tone
		}
		return ToneNeutral
	}, "Category", "Period", "Usage", "Spent", "Status")
	for _, r := range rows {
		status := fmt.Sprintf("%d%%", r.Percent)
		if r.Over {
			status += " OVER"
		}
		t.Row(r.Category, r.Period, budgetBar(r.Percent), r.Spent+" / "+r.Limit, status)
	}
	return t.Render()
}

const budgetBarWidth = 20

// budgetBar draws usage as a fixed-width bar. Usage outside 0..100 percent
// renders as an empty or a full bar.
func budgetBar(percent int) string {
	filled := percent * budgetBarWidth / 100
	filled = max(0, min(filled, budgetBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", budgetBarWidth-filled)
}
