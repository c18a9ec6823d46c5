package components

import (
	"pokedoke/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// RenderNotice shows a fetch error. Once dismissed only a retry hint remains.
func RenderNotice(message string, dismissed bool) string {
	if dismissed {
		return styles.FooterStyle.Render("Press 'r' to retry")
	}
	return styles.NoticeStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		message,
		lipgloss.NewStyle().Foreground(styles.Subtle).Render("[x] dismiss • [r] retry"),
	))
}
