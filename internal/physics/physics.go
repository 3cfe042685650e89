// Package physics provides distance and boundary utilities.
package physics

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Reflect returns the velocity for the next step along one axis of a
// reflective boundary spanning [0, limit]. The sign flips only when the
// position has already crossed a bound, so a particle may overshoot by at
// most one step before it turns around.
func Reflect(pos, vel, limit float64) float64 {
	if pos > limit || pos < 0 {
		return -vel
	}
	return vel
}

// PointInRect reports whether (px, py) lies inside the half-open rectangle
// [x, x+w) x [y, y+h).
func PointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px < x+w && py >= y && py < y+h
}
