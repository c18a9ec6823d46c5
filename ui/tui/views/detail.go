package views

import (
	"strings"

	"pokedoke/internal/model"
	"pokedoke/ui/tui/state"
	"pokedoke/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type DetailView struct{}

func (v DetailView) Render(s state.AppState, props ViewProps) string {
	name := strings.ToUpper(s.Selection.Name)

	body := Dispatch(s.Detail, props, "Loading "+name+"…", s.DetailNoticeDismissed, func(model.PokemonDetail) string {
		return props.ViewportView
	})

	footer := styles.FooterStyle.Render("[B] Back • [C] Chart • [R] Refresh • [↑/↓] Scroll • [Q] Quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// DetailBody is the scrollable content of a loaded detail page.
func DetailBody(d model.PokemonDetail, props ViewProps) string {
	width := max(props.Width, 30)

	sections := []string{
		Band(d.Types, d.Name, width),
	}
	if props.SpriteView != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, props.SpriteView))
	}

	var chips []string
	for _, t := range d.Types {
		chips = append(chips, styles.ChipStyle.Background(lipgloss.Color(t.Hex())).Render(strings.ToUpper(string(t))))
	}
	sections = append(sections,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, chips...)),
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.JoinHorizontal(lipgloss.Top,
				measure(d.WeightString(), "Weight"),
				measure(d.HeightString(), "Height"),
			)),
		lipgloss.NewStyle().Bold(true).Margin(1, 0, 0, 2).Render("BASE STATS"),
	)
	for _, bar := range props.BarViews {
		sections = append(sections, lipgloss.NewStyle().PaddingLeft(2).Render(bar))
	}
	if props.ShowChart && props.ChartView != "" {
		sections = append(sections, props.ChartView)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Band is the header strip coloured by the Pokémon's types, with the
// upper-cased name centred under it.
func Band(types []model.Type, name string, width int) string {
	colors := model.BackgroundBand(types)
	left := width / 2
	right := width - left

	strip := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Background(lipgloss.Color(colors[0])).Width(left).Height(2).Render(""),
		lipgloss.NewStyle().Background(lipgloss.Color(colors[1])).Width(right).Height(2).Render(""),
	)
	title := lipgloss.NewStyle().
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		MarginTop(1).
		Render(strings.ToUpper(name))
	return lipgloss.JoinVertical(lipgloss.Left, strip, title)
}

func measure(value, label string) string {
	return lipgloss.NewStyle().Width(16).Align(lipgloss.Center).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render(value),
			lipgloss.NewStyle().Foreground(styles.Subtle).Render(label),
		),
	)
}
