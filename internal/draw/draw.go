// Package draw renders to ANSI terminals: a scaled half-block canvas for the
// particle field plus helpers for cursor control, colour and text output.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// SGR sequences used by text overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorDim        = "\033[2m"
	ColorReverse    = "\033[7m"
	ColorBrightCyan = "\033[96m"
	ColorCyan       = "\033[36m"
	ColorWhite      = "\033[97m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
