package views

import (
	"fmt"
	"math"
	"strings"

	"pokedoke/internal/model"
	"pokedoke/ui/tui/state"
	"pokedoke/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const (
	// Columns in the card grid.
	Columns    = 2
	cardHeight = 9 // thumbnail rows + label + borders
	chromeRows = 4 // header and footer
)

// CardZone is the bubblezone id of the card at index i.
func CardZone(i int) string {
	return fmt.Sprintf("card_%d", i)
}

// VisibleRows is how many card rows fit into height.
func VisibleRows(height int) int {
	rows := (height - chromeRows) / cardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

type ListView struct{}

func (v ListView) Render(s state.AppState, props ViewProps) string {
	header := styles.TitleStyle.Width(max(props.Width, 20)).Render("POKÉDOKE")

	body := Dispatch(s.List, props, "Loading Pokédex…", s.ListNoticeDismissed, func(list []model.PokemonSummary) string {
		if len(list) == 0 {
			return styles.FooterStyle.Render("No Pokémon found.")
		}
		return v.grid(list, props)
	})

	footer := styles.FooterStyle.Render("[←↑↓→] Navigate • [Enter] Open • [R] Refresh • [Q] Quit")
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (v ListView) grid(list []model.PokemonSummary, props ViewProps) string {
	cardWidth := props.Width/Columns - 4
	if cardWidth < 18 {
		cardWidth = 18
	}

	// Keep the cursor row on screen.
	visible := VisibleRows(props.Height)
	cursorRow := props.Cursor / Columns
	firstRow := 0
	if cursorRow >= visible {
		firstRow = cursorRow - visible + 1
	}

	var rows []string
	for r := firstRow; r < firstRow+visible; r++ {
		var cells []string
		for c := 0; c < Columns; c++ {
			i := r*Columns + c
			if i >= len(list) {
				break
			}
			cells = append(cells, zone.Mark(CardZone(i), v.card(i, list[i], cardWidth, props)))
		}
		if len(cells) == 0 {
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v ListView) card(i int, p model.PokemonSummary, width int, props ViewProps) string {
	dist := math.Abs(float64(i) - props.AnimCursor)
	strength := 0.0
	if dist < 1.0 {
		strength = 1.0 - dist
	}

	style := styles.CardStyle.Width(width).Align(lipgloss.Center)
	tint := props.Tints[p.ID]
	if tint != "" {
		style = style.Background(lipgloss.Color(tint)).BorderForeground(lipgloss.Color(tint))
	}
	if i == props.Hover {
		style = style.BorderForeground(styles.HoverColor)
	}
	if strength > 0.1 || i == props.Cursor {
		style = style.BorderForeground(styles.BrandColor)
	}
	if i == props.Cursor {
		style = style.Bold(true).Foreground(lipgloss.Color("#FFF"))
	} else {
		style = style.Foreground(lipgloss.Color("#DDD"))
	}

	art := props.CardArt[p.ID]
	if art == "" {
		art = strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", 12)+"\n", 6), "\n")
	}
	label := fmt.Sprintf("%s  #%03d", p.Label(), p.ID)
	return style.Render(lipgloss.JoinVertical(lipgloss.Center, art, label))
}
