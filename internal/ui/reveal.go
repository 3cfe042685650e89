package ui

import (
	"math"
	"time"
)

// Scroll reveal parameters: sections fade in from below once a tenth of
// them is visible.
const (
	RevealThreshold = 0.1
	RevealDuration  = 600 * time.Millisecond
	RevealOffset    = 20.0 // Starting downward offset in pixels
)

type revealState struct {
	observed bool
	started  bool
	start    time.Time
}

// Reveal tracks the fade-in of page sections. Each section is observed until
// it first intersects the viewport enough, then animates once and is never
// observed again.
type Reveal struct {
	sections []revealState
}

// NewReveal observes n sections, all hidden.
func NewReveal(n int) *Reveal {
	r := &Reveal{sections: make([]revealState, n)}
	for i := range r.sections {
		r.sections[i].observed = true
	}
	return r
}

// Len returns the number of tracked sections.
func (r *Reveal) Len() int { return len(r.sections) }

// Observe reports the visible fraction of section i at time now.
func (r *Reveal) Observe(i int, ratio float64, now time.Time) {
	if i < 0 || i >= len(r.sections) {
		return
	}
	s := &r.sections[i]
	if !s.observed || ratio < RevealThreshold {
		return
	}
	s.observed = false
	s.started = true
	s.start = now
}

// Observed reports whether section i is still waiting to be revealed.
func (r *Reveal) Observed(i int) bool {
	if i < 0 || i >= len(r.sections) {
		return false
	}
	return r.sections[i].observed
}

// State returns the opacity in [0, 1] and downward offset in pixels of
// section i at time now. Unknown sections are fully shown.
func (r *Reveal) State(i int, now time.Time) (opacity, offset float64) {
	if i < 0 || i >= len(r.sections) {
		return 1, 0
	}
	s := r.sections[i]
	if !s.started {
		return 0, RevealOffset
	}
	t := float64(now.Sub(s.start)) / float64(RevealDuration)
	p := EaseOut(math.Max(0, math.Min(1, t)))
	return p, RevealOffset * (1 - p)
}

// Animating reports whether any section is mid transition at now.
func (r *Reveal) Animating(now time.Time) bool {
	for _, s := range r.sections {
		if s.started && now.Sub(s.start) < RevealDuration {
			return true
		}
	}
	return false
}

// IntersectionRatio returns the fraction of [start, end) that lies inside
// [viewStart, viewEnd). Empty ranges give 0.
func IntersectionRatio(start, end, viewStart, viewEnd float64) float64 {
	if end <= start {
		return 0
	}
	lo := math.Max(start, viewStart)
	hi := math.Min(end, viewEnd)
	if hi <= lo {
		return 0
	}
	return (hi - lo) / (end - start)
}

// EaseOut is the CSS ease-out timing function, cubic-bezier(0, 0, 0.58, 1).
func EaseOut(x float64) float64 {
	return cubicBezier(0, 0, 0.58, 1, x)
}

// cubicBezier evaluates a CSS timing curve at progress x by bisecting for
// the curve parameter whose x coordinate matches.
func cubicBezier(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	bez := func(a, b, t float64) float64 {
		u := 1 - t
		return 3*u*u*t*a + 3*u*t*t*b + t*t*t
	}
	lo, hi := 0.0, 1.0
	t := x
	for range 40 {
		t = (lo + hi) / 2
		if bez(x1, x2, t) < x {
			lo = t
		} else {
			hi = t
		}
	}
	return bez(y1, y2, t)
}
