package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}

	// BrandColor is the Pokédex red used for the title bar and the HP bar.
	BrandColor = lipgloss.Color("#E3350D")
	BaseColor  = lipgloss.Color("#444")
	HoverColor = lipgloss.Color("#aaa")

	// Stat bar fills, in display order HP, ATK, DEF, SPD, EXP.
	StatColors = []string{"#E3350D", "#FFCC80", "#A5D6A7", "#90CAF9", "#A890F0"}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Padding(0, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BaseColor).
			Padding(0, 1).
			Margin(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 2).
			Margin(1, 2)

	ChipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 2).
			MarginRight(1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666")).
			PaddingLeft(2)
)
