package game

import (
	"cmp"
	"math"
)

// Point is a 2D coordinate in scene units
type Point struct {
	X float64
	Y float64
}

// Collides reports whether q lies strictly inside the axis-aligned square of
// half-size t centered on p. The test is not Euclidean: corners of the square
// count, and points exactly t away on either axis do not.
func (p Point) Collides(q Point, t float64) bool {
	return math.Abs(p.X-q.X) < t && math.Abs(p.Y-q.Y) < t
}

// MovedBy returns p translated by d.
func (p Point) MovedBy(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// clampUnit limits v to [-1,1]. NaN maps to 0.
func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -1, 1)
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normDegrees wraps d into [0,360).
func normDegrees(d int) int {
	return ((d % 360) + 360) % 360
}

// wrapDegrees wraps d into (-180,180].
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

func radians(deg int) float64 {
	return float64(deg) * math.Pi / 180
}
