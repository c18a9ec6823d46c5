package palette

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Tint is the background color of one card. The zero value is transparent.
// It has a single writer (the UI update loop) and is never shared.
type Tint struct {
	color colorful.Color
	set   bool
}

// Apply records c when ok is true and leaves the previous value otherwise.
// It reports whether the tint changed.
func (t *Tint) Apply(c colorful.Color, ok bool) bool {
	if !ok {
		return false
	}
	changed := !t.set || t.color != c
	t.color = c
	t.set = true
	return changed
}

// Color returns the tint and whether one has been sampled.
func (t Tint) Color() (colorful.Color, bool) {
	return t.color, t.set
}

// Hex returns "#rrggbb", or "" while transparent.
func (t Tint) Hex() string {
	if !t.set {
		return ""
	}
	return t.color.Clamped().Hex()
}

// Hook adapts Dominant into an image post-processing step that forwards its
// result to publish.
func Hook(publish func(colorful.Color, bool)) func(image.Image) {
	return func(img image.Image) {
		publish(Dominant(img))
	}
}
