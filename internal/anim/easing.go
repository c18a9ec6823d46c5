package anim

import "math"

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// FastOutSlowIn accelerates quickly and settles slowly. It is the default
// curve for stat bars.
var FastOutSlowIn = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CubicBezier returns a CSS-style cubic-bezier easing with control points
// (x1,y1) and (x2,y2). x1 and x2 must lie in [0,1].
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	// Polynomial coefficients for B(t) = ((a*t + b)*t + c)*t.
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		const epsilon = 1e-7

		t := x
		for i := 0; i < 8; i++ {
			diff := sampleX(t) - x
			if math.Abs(diff) < epsilon {
				return t
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= diff / d
		}

		// Newton did not converge, fall back to bisection.
		lo, hi := 0.0, 1.0
		t = x
		for lo < hi {
			v := sampleX(t)
			if math.Abs(v-x) < epsilon {
				return t
			}
			if x > v {
				lo = t
			} else {
				hi = t
			}
			next := (hi-lo)/2 + lo
			if next == t {
				break
			}
			t = next
		}
		return t
	}

	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		return sampleY(solve(p))
	}
}
