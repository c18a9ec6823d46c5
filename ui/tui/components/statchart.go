package components

import (
	"pokedoke/internal/anim"
	"pokedoke/internal/model"
	"pokedoke/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// StatChart draws the settled stat fractions side by side as a bar chart.
type StatChart struct {
	Chart  barchart.Model
	Width  int
	Height int
}

func NewStatChart(width, height int) *StatChart {
	return &StatChart{
		Chart:  barchart.New(width, height),
		Width:  width,
		Height: height,
	}
}

// Push replaces the chart data with the percent-of-ceiling of each stat.
func (c *StatChart) Push(stats []model.Stat) {
	c.Chart.Clear()
	data := make([]barchart.BarData, 0, len(stats))
	for i, s := range stats {
		f, _ := anim.Fraction(s.Value, s.Max)
		color := styles.StatColors[i%len(styles.StatColors)]
		data = append(data, barchart.BarData{
			Label: s.Label,
			Values: []barchart.BarValue{{
				Name:  s.Label,
				Value: f * 100,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(color)),
			}},
		})
	}
	c.Chart.PushAll(data)
	c.Chart.Draw()
}

func (c *StatChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
	c.Chart.Draw()
}

func (c *StatChart) View() string {
	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("Stat Profile (% of ceiling)"),
			c.Chart.View(),
		),
	)
}
