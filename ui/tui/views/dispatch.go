package views

import (
	"pokedoke/internal/viewstate"
	"pokedoke/ui/tui/components"

	"github.com/charmbracelet/lipgloss"
)

// Dispatch renders exactly one of the loading, error or content branches
// for s. A dismissed error leaves only the retry hint.
func Dispatch[T any](s viewstate.State[T], props ViewProps, loadingText string, dismissed bool, content func(T) string) string {
	return viewstate.Match(s,
		func() string {
			return lipgloss.NewStyle().Padding(1, 2).Render(props.SpinnerView + " " + loadingText)
		},
		content,
		func(message string) string {
			return components.RenderNotice(message, dismissed)
		},
	)
}
