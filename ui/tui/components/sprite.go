package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSprite draws img into cols x rows terminal cells using upper half
// blocks, two pixels per cell. Transparent pixels show the background.
func RenderSprite(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	sample := func(cx, py int) (string, bool) {
		x := b.Min.X + cx*b.Dx()/cols
		y := b.Min.Y + py*b.Dy()/(rows*2)
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if c.A < 128 {
			return "", false
		}
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), true
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for cx := 0; cx < cols; cx++ {
			top, topOK := sample(cx, r*2)
			bottom, bottomOK := sample(cx, r*2+1)
			style := lipgloss.NewStyle()
			switch {
			case topOK && bottomOK:
				sb.WriteString(style.Foreground(lipgloss.Color(top)).Background(lipgloss.Color(bottom)).Render("▀"))
			case topOK:
				sb.WriteString(style.Foreground(lipgloss.Color(top)).Render("▀"))
			case bottomOK:
				sb.WriteString(style.Foreground(lipgloss.Color(bottom)).Render("▄"))
			default:
				sb.WriteByte(' ')
			}
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}
