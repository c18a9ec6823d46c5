package components

import (
	"errors"
	"fmt"
	"time"

	"pokedoke/internal/anim"
	"pokedoke/internal/logger"
	"pokedoke/internal/model"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	statLabelWidth = 5
	statValueWidth = 6
)

// StatBar is one labelled, animated row of the base stats block.
type StatBar struct {
	Label string
	Color string

	tween anim.StatProgress
	bar   progress.Model
	width int
}

// NewStatBar creates a bar resting at 0 and starts its tween toward s.
func NewStatBar(s model.Stat, color string, width int, now time.Time) *StatBar {
	b := &StatBar{Label: s.Label, Color: color}
	b.bar = progress.New(
		progress.WithSolidFill(color),
		progress.WithoutPercentage(),
	)
	b.Resize(width)
	b.Set(s.Value, s.Max, now)
	return b
}

// Set retargets the bar. An unchanged value keeps the running tween.
func (b *StatBar) Set(stat, maxStat int, now time.Time) bool {
	restarted, err := b.tween.Set(stat, maxStat, now)
	if errors.Is(err, anim.ErrZeroMax) {
		logger.Debug.Printf("stat %s: ceiling %d is not positive, showing empty bar", b.Label, maxStat)
	}
	return restarted
}

// Resize sets the total row width.
func (b *StatBar) Resize(width int) {
	b.width = width
	track := width - statLabelWidth - statValueWidth - 2
	if track < 4 {
		track = 4
	}
	b.bar.Width = track
}

// Fraction is the visible fill at now.
func (b *StatBar) Fraction(now time.Time) float64 {
	return b.tween.Value(now)
}

// Target is the fill the bar settles at.
func (b *StatBar) Target() float64 {
	return b.tween.Target()
}

// Done reports whether the tween has settled.
func (b *StatBar) Done(now time.Time) bool {
	return b.tween.Done(now)
}

// View renders the row at now.
func (b *StatBar) View(now time.Time) string {
	label := lipgloss.NewStyle().Width(statLabelWidth).Bold(true).Render(b.Label)
	value := lipgloss.NewStyle().Width(statValueWidth).Align(lipgloss.Right).Render(fmt.Sprintf("%d", b.tween.Stat()))
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", b.bar.ViewAs(b.Fraction(now)), " ", value)
}
