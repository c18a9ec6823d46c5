package views

import (
	"pokedoke/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int

	// List
	Cursor     int
	Hover      int // card under the mouse, -1 for none
	AnimCursor float64
	Tints      map[int]string // card id -> sampled background hex
	CardArt    map[int]string // card id -> rendered thumbnail

	// Detail
	SpriteView   string
	BarViews     []string
	ChartView    string
	ShowChart    bool
	ViewportView string

	SpinnerView string
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
