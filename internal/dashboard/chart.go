package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrChartDisposed is returned when rendering a chart after Dispose.
var ErrChartDisposed = errors.New("chart disposed")

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label   string
	Value   float64
	Display string
	Color   string
}

// BarChart renders horizontal bars scaled to the largest value. A chart is
// owned by the Renderer that created it and must be disposed before the
// next render replaces it.
type BarChart struct {
	title    string
	bars     []Bar
	width    int
	disposed bool
}

// NewBarChart copies bars; width is the length of the longest bar.
func NewBarChart(title string, bars []Bar, width int) *BarChart {
	if width < 1 {
		width = 1
	}
	return &BarChart{
		title: title,
		bars:  append([]Bar(nil), bars...),
		width: width,
	}
}

func (c *BarChart) Title() string { return c.title }

// Dispose releases the chart's data. Rendering afterwards fails.
func (c *BarChart) Dispose() {
	c.bars = nil
	c.disposed = true
}

func (c *BarChart) Disposed() bool { return c.disposed }

// Render draws the chart, one line per bar.
func (c *BarChart) Render() (string, error) {
	if c.disposed {
		return "", fmt.Errorf("render %q: %w", c.title, ErrChartDisposed)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(c.title))
	b.WriteString("\n")
	if len(c.bars) == 0 {
		b.WriteString(SubtleStyle.Render("  no data"))
		b.WriteString("\n")
		return b.String(), nil
	}

	labelWidth, peak := 0, 0.0
	for _, bar := range c.bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
		peak = math.Max(peak, math.Abs(bar.Value))
	}

	for _, bar := range c.bars {
		n := BarLength(bar.Value, peak, c.width)
		style := lipgloss.NewStyle()
		if bar.Color != "" {
			style = style.Foreground(lipgloss.Color(bar.Color))
		}
		label := bar.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(bar.Label))
		fmt.Fprintf(&b, "  %s %s %s\n", label, style.Render(strings.Repeat("█", n)), bar.Display)
	}
	return b.String(), nil
}

// BarLength scales |value| against peak to at most width cells. Any non-zero
// value gets at least one cell.
func BarLength(value, peak float64, width int) int {
	value = math.Abs(value)
	if peak <= 0 || value == 0 {
		return 0
	}
	n := int(math.Round(value / peak * float64(width)))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}
