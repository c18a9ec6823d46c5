// Package model holds the immutable records shown by the list and detail screens.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// STAT CEILINGS
// ============================================================================

// Scale ceilings used by the stat bars on the detail screen.
const (
	MaxHP      = 255
	MaxAttack  = 300
	MaxDefense = 300
	MaxSpeed   = 300
	MaxExp     = 1000
)

// ArtworkURLFormat is the official-artwork sprite location keyed by Pokédex number.
const ArtworkURLFormat = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

// ============================================================================
// DATA STRUCTURES
// ============================================================================

// PokemonSummary is one entry of the list endpoint. Identity is ID.
type PokemonSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Label is the card caption.
func (p PokemonSummary) Label() string {
	return strings.ToUpper(p.Name)
}

// PokemonDetail is the result of one detail fetch.
type PokemonDetail struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Height     int    `json:"height"` // decimetres
	Weight     int    `json:"weight"` // hectograms
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Speed      int    `json:"speed"`
	Experience int    `json:"experience"`
	Types      []Type `json:"types"`
}

// HeightString formats the height in metres.
func (d PokemonDetail) HeightString() string {
	return fmt.Sprintf("%.1f M", float64(d.Height)/10)
}

// WeightString formats the weight in kilograms.
func (d PokemonDetail) WeightString() string {
	return fmt.Sprintf("%.1f KG", float64(d.Weight)/10)
}

// Stat is one labelled row of the base stats block.
type Stat struct {
	Label string
	Value int
	Max   int
}

// Stats returns the base stats in display order.
func (d PokemonDetail) Stats() []Stat {
	return []Stat{
		{Label: "HP", Value: d.HP, Max: MaxHP},
		{Label: "ATK", Value: d.Attack, Max: MaxAttack},
		{Label: "DEF", Value: d.Defense, Max: MaxDefense},
		{Label: "SPD", Value: d.Speed, Max: MaxSpeed},
		{Label: "EXP", Value: d.Experience, Max: MaxExp},
	}
}

// TypeNames returns the type names in slot order.
func (d PokemonDetail) TypeNames() []string {
	names := make([]string, len(d.Types))
	for i, t := range d.Types {
		names[i] = string(t)
	}
	return names
}

// ============================================================================
// HELPERS
// ============================================================================

// ArtworkURL returns the sprite URL for a Pokédex number.
func ArtworkURL(id int) string {
	return fmt.Sprintf(ArtworkURLFormat, id)
}

// IDFromResourceURL extracts the trailing numeric id of a PokeAPI resource
// URL such as "https://pokeapi.co/api/v2/pokemon/25/".
func IDFromResourceURL(raw string) (int, error) {
	trimmed := strings.TrimRight(raw, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return 0, fmt.Errorf("no id in resource url %q", raw)
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("parse id from %q: %w", raw, err)
	}
	return id, nil
}

// NormalizeName lower-cases and trims a lookup key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
