// Package anim drives the stat bar animation: a delayed, eased tween of a
// fill fraction toward stat/maxStat.
package anim

import (
	"errors"
	"time"
)

const (
	// StatDuration is how long a stat bar takes to reach its target.
	StatDuration = 1000 * time.Millisecond
	// StatDelay is the pause before a stat bar starts moving.
	StatDelay = 500 * time.Millisecond
)

// ErrZeroMax reports a stat ceiling that is zero or negative. The fraction
// is forced to 0 instead of propagating NaN or Inf.
var ErrZeroMax = errors.New("anim: stat ceiling must be positive")

// Fraction returns min(stat/maxStat, 1), clamped at 0 from below.
func Fraction(stat, maxStat int) (float64, error) {
	if maxStat <= 0 {
		return 0, ErrZeroMax
	}
	if stat <= 0 {
		return 0, nil
	}
	f := float64(stat) / float64(maxStat)
	if f > 1 {
		f = 1
	}
	return f, nil
}

// Tween interpolates From to To after Delay, over Duration, shaped by Ease.
type Tween struct {
	From     float64
	To       float64
	Start    time.Time
	Delay    time.Duration
	Duration time.Duration
	Ease     Easing
}

// At returns the interpolated value at now.
func (t Tween) At(now time.Time) float64 {
	elapsed := now.Sub(t.Start) - t.Delay
	if elapsed <= 0 {
		return t.From
	}
	if t.Duration <= 0 || elapsed >= t.Duration {
		return t.To
	}
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	p := float64(elapsed) / float64(t.Duration)
	return t.From + (t.To-t.From)*ease(p)
}

// Done reports whether the tween has reached To.
func (t Tween) Done(now time.Time) bool {
	return now.Sub(t.Start) >= t.Delay+t.Duration
}

// StatProgress owns the animated fraction of one stat bar. The zero value
// rests at 0 and is ready to use.
type StatProgress struct {
	stat    int
	maxStat int
	started bool
	tween   Tween
}

// Set points the bar at stat/maxStat. The tween restarts from the current
// value only when stat differs from the last call; a changed maxStat alone is
// recorded but does not restart. It reports whether a restart happened and
// returns ErrZeroMax when the ceiling is not positive, in which case the
// target is 0.
func (p *StatProgress) Set(stat, maxStat int, now time.Time) (bool, error) {
	p.maxStat = maxStat
	if p.started && p.stat == stat {
		return false, nil
	}

	target, err := Fraction(stat, maxStat)
	p.tween = Tween{
		From:     p.Value(now),
		To:       target,
		Start:    now,
		Delay:    StatDelay,
		Duration: StatDuration,
		Ease:     FastOutSlowIn,
	}
	p.stat = stat
	p.started = true
	return true, err
}

// Value returns the visible fraction at now.
func (p *StatProgress) Value(now time.Time) float64 {
	if !p.started {
		return 0
	}
	return p.tween.At(now)
}

// Target returns the fraction the bar is heading to.
func (p *StatProgress) Target() float64 {
	return p.tween.To
}

// Done reports whether the bar has settled.
func (p *StatProgress) Done(now time.Time) bool {
	return !p.started || p.tween.Done(now)
}

// Stat returns the last stat passed to Set.
func (p *StatProgress) Stat() int {
	return p.stat
}
