package console

import (
	"fmt"
	"io"
	"strings"

	"pokedoke/internal/anim"
	"pokedoke/internal/logger"
	"pokedoke/internal/model"

	"github.com/charmbracelet/glamour"
)

const barWidth = 20

// PrintList writes the summaries as a markdown table.
func PrintList(w io.Writer, list []model.PokemonSummary) error {
	return render(w, ListMarkdown(list))
}

// PrintDetail writes one Pokémon with its stat bars.
func PrintDetail(w io.Writer, d model.PokemonDetail) error {
	return render(w, DetailMarkdown(d))
}

func ListMarkdown(list []model.PokemonSummary) string {
	var b strings.Builder
	b.WriteString("# Pokédex\n\n")
	if len(list) == 0 {
		b.WriteString("_No Pokémon found._\n")
		return b.String()
	}
	b.WriteString("| # | Name |\n|---:|:---|\n")
	for _, p := range list {
		fmt.Fprintf(&b, "| %03d | %s |\n", p.ID, p.Label())
	}
	return b.String()
}

func DetailMarkdown(d model.PokemonDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s #%03d\n\n", strings.ToUpper(d.Name), d.ID)

	types := d.TypeNames()
	for i := range types {
		types[i] = "`" + strings.ToUpper(types[i]) + "`"
	}
	if len(types) > 0 {
		fmt.Fprintf(&b, "%s\n\n", strings.Join(types, " "))
	}
	fmt.Fprintf(&b, "**Weight** %s · **Height** %s\n\n", d.WeightString(), d.HeightString())

	b.WriteString("## Base Stats\n\n```\n")
	for _, s := range d.Stats() {
		fmt.Fprintf(&b, "%-4s %s %4d/%d\n", s.Label, bar(s), s.Value, s.Max)
	}
	b.WriteString("```\n")
	return b.String()
}

// bar draws the settled fill of s using a dots leader like the TUI track.
func bar(s model.Stat) string {
	f, _ := anim.Fraction(s.Value, s.Max)
	filled := int(f*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
}

func render(w io.Writer, md string) error {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		logger.Debug.Printf("glamour render failed, printing raw markdown: %v", err)
		out = md
	}
	_, err = io.WriteString(w, out)
	return err
}
