package ui

import "time"

// OutlineDuration is how long the cursor outline takes to catch up with the pointer.
const OutlineDuration = 500 * time.Millisecond

// Cursor is the custom pointer: a dot that follows the pointer exactly and an
// outline ring that glides to it.
type Cursor struct {
	visible bool
	dotX    float64
	dotY    float64
	fromX   float64
	fromY   float64
	start   time.Time
}

// Move records a pointer move at now. The outline restarts its animation from
// wherever it currently is. The first move places both markers.
func (c *Cursor) Move(x, y float64, now time.Time) {
	if c.visible {
		c.fromX, c.fromY = c.Outline(now)
	} else {
		c.fromX, c.fromY = x, y
		c.visible = true
	}
	c.dotX, c.dotY = x, y
	c.start = now
}

// Visible reports whether the pointer has been seen yet.
func (c *Cursor) Visible() bool { return c.visible }

// Dot returns the dot position.
func (c *Cursor) Dot() (x, y float64) { return c.dotX, c.dotY }

// Outline returns the outline position at now. It moves linearly and holds
// the target once the animation ends.
func (c *Cursor) Outline(now time.Time) (x, y float64) {
	t := float64(now.Sub(c.start)) / float64(OutlineDuration)
	if t >= 1 {
		return c.dotX, c.dotY
	}
	if t < 0 {
		t = 0
	}
	return c.fromX + (c.dotX-c.fromX)*t, c.fromY + (c.dotY-c.fromY)*t
}

// Settled reports whether the outline has reached the dot at now.
func (c *Cursor) Settled(now time.Time) bool {
	return now.Sub(c.start) >= OutlineDuration
}
