// Package palette extracts the dominant color of a decoded image.
//
// Pixels are quantized to 5 bits per channel and the occupied buckets are
// split by median cut. The dominant swatch is the most populated box; its
// color is the mean of the original 8-bit pixels that fell into it.
package palette

import (
	"image"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxColors bounds the number of median-cut boxes.
	MaxColors = 16
	// MaxSamples bounds how many pixels are read from large images.
	MaxSamples = 112 * 112

	alphaThreshold = 128
	quantizeShift  = 3
)

type bucket struct {
	r, g, b    uint8 // quantized coordinates
	count      int
	sr, sg, sb int // sums of original channel values
}

type box struct {
	buckets []*bucket
}

func (bx box) population() int {
	n := 0
	for _, b := range bx.buckets {
		n += b.count
	}
	return n
}

// longest returns the channel index (0=r, 1=g, 2=b) with the widest range
// and that range.
func (bx box) longest() (int, int) {
	minC := [3]int{255, 255, 255}
	maxC := [3]int{0, 0, 0}
	for _, b := range bx.buckets {
		v := [3]int{int(b.r), int(b.g), int(b.b)}
		for i := range v {
			if v[i] < minC[i] {
				minC[i] = v[i]
			}
			if v[i] > maxC[i] {
				maxC[i] = v[i]
			}
		}
	}
	dim, width := 0, -1
	for i := 0; i < 3; i++ {
		if w := maxC[i] - minC[i]; w > width {
			dim, width = i, w
		}
	}
	return dim, width
}

func (bx box) split() (box, box) {
	dim, _ := bx.longest()
	key := func(b *bucket) uint8 {
		switch dim {
		case 0:
			return b.r
		case 1:
			return b.g
		default:
			return b.b
		}
	}
	sort.Slice(bx.buckets, func(i, j int) bool {
		return key(bx.buckets[i]) < key(bx.buckets[j])
	})

	half := bx.population() / 2
	acc := 0
	cut := 1
	for i, b := range bx.buckets {
		acc += b.count
		if acc >= half {
			cut = i + 1
			break
		}
	}
	if cut >= len(bx.buckets) {
		cut = len(bx.buckets) - 1
	}
	return box{buckets: bx.buckets[:cut]}, box{buckets: bx.buckets[cut:]}
}

func (bx box) mean() colorful.Color {
	var n, sr, sg, sb int
	for _, b := range bx.buckets {
		n += b.count
		sr += b.sr
		sg += b.sg
		sb += b.sb
	}
	return colorful.Color{
		R: float64(sr) / float64(n) / 255,
		G: float64(sg) / float64(n) / 255,
		B: float64(sb) / float64(n) / 255,
	}
}

// Dominant returns the most visually prominent color of img. It reports false
// when img is nil, empty, or has no opaque pixels.
func Dominant(img image.Image) (colorful.Color, bool) {
	if img == nil {
		return colorful.Color{}, false
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return colorful.Color{}, false
	}

	step := 1
	if area := bounds.Dx() * bounds.Dy(); area > MaxSamples {
		step = int(math.Ceil(math.Sqrt(float64(area) / float64(MaxSamples))))
	}

	hist := make(map[uint16]*bucket)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < alphaThreshold {
				continue
			}
			qr, qg, qb := c.R>>quantizeShift, c.G>>quantizeShift, c.B>>quantizeShift
			key := uint16(qr)<<10 | uint16(qg)<<5 | uint16(qb)
			b, ok := hist[key]
			if !ok {
				b = &bucket{r: qr, g: qg, b: qb}
				hist[key] = b
			}
			b.count++
			b.sr += int(c.R)
			b.sg += int(c.G)
			b.sb += int(c.B)
		}
	}
	if len(hist) == 0 {
		return colorful.Color{}, false
	}

	all := make([]*bucket, 0, len(hist))
	for _, b := range hist {
		all = append(all, b)
	}
	boxes := quantize(all, MaxColors)

	best := boxes[0]
	bestPop := best.population()
	for _, bx := range boxes[1:] {
		if p := bx.population(); p > bestPop {
			best, bestPop = bx, p
		}
	}
	return best.mean(), true
}

// quantize splits buckets into at most n boxes, always cutting the most
// populated box that can still be divided.
func quantize(buckets []*bucket, n int) []box {
	boxes := []box{{buckets: buckets}}
	for len(boxes) < n {
		idx := -1
		pop := 0
		for i, bx := range boxes {
			if len(bx.buckets) < 2 {
				continue
			}
			if p := bx.population(); p > pop {
				idx, pop = i, p
			}
		}
		if idx < 0 {
			break
		}
		a, b := boxes[idx].split()
		boxes[idx] = a
		boxes = append(boxes, b)
	}
	return boxes
}
