package state

import (
	"pokedoke/internal/model"
	"pokedoke/internal/viewstate"
)

type Page int

const (
	PageList   Page = iota
	PageDetail      // one Pokémon, entered from a list card
)

// Selection is everything the detail page receives from the list.
type Selection struct {
	Name     string
	ImageURL string
}

// AppState holds the current snapshot of both screens.
type AppState struct {
	CurrentPage Page
	Selection   Selection

	List   viewstate.State[[]model.PokemonSummary]
	Detail viewstate.State[model.PokemonDetail]

	// Set when the user closed the error notice of the current fetch.
	ListNoticeDismissed   bool
	DetailNoticeDismissed bool
}
