package views

import (
	"pokedoke/ui/tui/state"
)

func RenderList(s state.AppState, props ViewProps) string {
	return ListView{}.Render(s, props)
}

func RenderDetail(s state.AppState, props ViewProps) string {
	return DetailView{}.Render(s, props)
}
