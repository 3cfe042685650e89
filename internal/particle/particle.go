// Package particle implements the animated particle field drawn behind the
// portfolio: drifting dots that bounce off the surface edges and are joined
// by faint lines when they come close to each other.
package particle

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Accent is the colour shared by every particle and connection line (#00f2ff).
var Accent = color.NRGBA{R: 0x00, G: 0xf2, B: 0xff, A: 0xff}

// Params holds the empirical constants of the effect.
type Params struct {
	Density          float64     // Surface area (px²) per particle
	MaxVelocity      float64     // Velocity components are drawn from [-MaxVelocity, MaxVelocity)
	MinSize          float64     // Smallest radius
	SizeRange        float64     // Radius is drawn from [MinSize, MinSize+SizeRange)
	ThresholdDivisor float64     // Lines are drawn below (W/div)*(H/div) squared distance
	OpacityDivisor   float64     // Line opacity is 1 - d²/OpacityDivisor
	LineWidth        float64     // Stroke width of connection lines
	Color            color.NRGBA // Particle and line colour
	SelfPairs        bool        // Also visit (a, a) pairs in Connect
}

// DefaultParams returns the constants the effect was tuned with.
func DefaultParams() Params {
	return Params{
		Density:          9000,
		MaxVelocity:      0.2,
		MinSize:          1,
		SizeRange:        2,
		ThresholdDivisor: 7,
		OpacityDivisor:   20000,
		LineWidth:        1,
		Color:            Accent,
	}
}

// Particle is a single dot of the field.
type Particle struct {
	X, Y       float64 // Position in surface pixels
	DirX, DirY float64 // Displacement per tick
	Size       float64 // Radius
	Color      color.NRGBA
}

// Field is the ordered set of live particles for one surface size.
type Field []Particle

// Rand is the random source used to seed a field. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the auto-seeded global generator.
var DefaultRand Rand = globalRand{}

// Count returns how many particles a surface of the given size holds.
// Degenerate or negative dimensions hold none.
func Count(width, height, density float64) int {
	if width <= 0 || height <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(width * height / density))
}

// Initialize builds a fresh field for a width x height surface.
func Initialize(width, height float64, rng Rand, p Params) Field {
	if rng == nil {
		rng = DefaultRand
	}
	n := Count(width, height, p.Density)
	field := make(Field, 0, n)

	for i := 0; i < n; i++ {
		size := rng.Float64()*p.SizeRange + p.MinSize
		x := spawnCoord(rng.Float64(), size, width)
		y := spawnCoord(rng.Float64(), size, height)
		dirX := rng.Float64()*p.MaxVelocity*2 - p.MaxVelocity
		dirY := rng.Float64()*p.MaxVelocity*2 - p.MaxVelocity

		field = append(field, Particle{
			X:     x,
			Y:     y,
			DirX:  dirX,
			DirY:  dirY,
			Size:  size,
			Color: p.Color,
		})
	}

	return field
}

// spawnCoord maps u in [0,1) onto [size*2, limit-size*2), keeping the result
// inside [0, limit] when the surface is too small for the margin.
func spawnCoord(u, size, limit float64) float64 {
	margin := size * 2
	v := u*((limit-margin)-margin) + margin
	if v < 0 {
		v = 0
	}
	if v > limit {
		v = limit
	}
	return v
}
