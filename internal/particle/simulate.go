package particle

import (
	"image/color"
	"math"

	"github.com/tomz197/termfolio/internal/physics"
)

// Surface is a 2D raster the field draws itself onto.
type Surface interface {
	// Clear erases the whole surface.
	Clear()
	// FillCircle draws a filled circle of radius r centred on (x, y).
	FillCircle(x, y, r float64, c color.NRGBA)
	// StrokeLine draws a line from (x1, y1) to (x2, y2).
	StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA)
}

// Tick advances every particle by one step and draws it.
// Velocity flips on an axis whose position has left [0, limit] before the
// move, so the bounce lags the crossing by one tick.
func Tick(field Field, width, height float64, s Surface) {
	for i := range field {
		p := &field[i]
		p.DirX = physics.Reflect(p.X, p.DirX, width)
		p.DirY = physics.Reflect(p.Y, p.DirY, height)
		p.X += p.DirX
		p.Y += p.DirY
		s.FillCircle(p.X, p.Y, p.Size, p.Color)
	}
}

// Threshold returns the squared distance under which two particles are joined.
func Threshold(width, height float64, p Params) float64 {
	return (width / p.ThresholdDivisor) * (height / p.ThresholdDivisor)
}

// Opacity maps a squared distance to a line opacity in [0, 1].
func Opacity(distSq float64, p Params) float64 {
	return clamp01(1 - distSq/p.OpacityDivisor)
}

// Connect draws a line between every pair of particles closer than
// Threshold. It must run after Tick so lines join post-move positions.
func Connect(field Field, width, height float64, s Surface, p Params) {
	threshold := Threshold(width, height, p)
	start := 1
	if p.SelfPairs {
		start = 0
	}

	for a := range field {
		pa := &field[a]
		for b := a + start; b < len(field); b++ {
			pb := &field[b]
			d := physics.DistanceSquared(pa.X, pa.Y, pb.X, pb.Y)
			if d >= threshold {
				continue
			}
			c := p.Color
			c.A = alpha(Opacity(d, p))
			s.StrokeLine(pa.X, pa.Y, pb.X, pb.Y, p.LineWidth, c)
		}
	}
}

func alpha(opacity float64) uint8 {
	return uint8(math.Round(clamp01(opacity) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
