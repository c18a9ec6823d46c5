package model

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Type is an elemental type name such as "grass" or "fire".
type Type string

// typeColors is the fixed vocabulary. Anything else renders neutral.
var typeColors = map[Type]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

const neutralTypeColor = "#68A090"

// Hex returns the display color of the type as "#RRGGBB".
func (t Type) Hex() string {
	if hex, ok := typeColors[t]; ok {
		return hex
	}
	return neutralTypeColor
}

// Color returns the display color of the type.
func (t Type) Color() colorful.Color {
	c, err := colorful.Hex(t.Hex())
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// BackgroundBand returns the two colors of the detail header band: one type
// repeats its color, two types use both, anything else is black.
func BackgroundBand(types []Type) [2]string {
	switch len(types) {
	case 1:
		return [2]string{types[0].Hex(), types[0].Hex()}
	case 2:
		return [2]string{types[0].Hex(), types[1].Hex()}
	default:
		return [2]string{"#000000", "#000000"}
	}
}
