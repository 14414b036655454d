// Package physics provides geometry, vector and distance utilities.
package physics

import (
	"math"
	"math/rand"
)

// Vec is a 2D point or vector in arena coordinates.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the vector magnitude.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Random returns a float in [0, 1). Managers take one so tests can pin it.
type Random func() float64

// DefaultRandom is the unseeded process-wide source.
var DefaultRandom Random = rand.Float64

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Clamp limits value to [lo, hi]. When lo > hi, lo wins.
func Clamp(value, lo, hi float64) float64 {
	return math.Max(math.Min(value, hi), lo)
}

// RandomBetween returns a value in [lo, hi) drawn from rnd.
func RandomBetween(rnd Random, lo, hi float64) float64 {
	if rnd == nil {
		rnd = DefaultRandom
	}
	return rnd()*(hi-lo) + lo
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// VectorFromAngle converts a heading where 0° points straight up
// (clockwise positive) into a velocity of the given magnitude.
func VectorFromAngle(angleDeg, magnitude float64) Vec {
	rad := DegToRad(angleDeg - 90)
	return Vec{X: math.Cos(rad) * magnitude, Y: math.Sin(rad) * magnitude}
}

// AngleVector converts a screen angle (0° = right, 90° = down) into a
// velocity of the given magnitude.
func AngleVector(angleDeg, magnitude float64) Vec {
	rad := DegToRad(angleDeg)
	return Vec{X: math.Cos(rad) * magnitude, Y: math.Sin(rad) * magnitude}
}

// Normalize returns the unit vector of (dx, dy). A zero vector is treated
// as having length 1, so the result is (0, 0) rather than NaN.
func Normalize(dx, dy float64) Vec {
	length := math.Hypot(dx, dy)
	if length == 0 {
		length = 1
	}
	return Vec{X: dx / length, Y: dy / length}
}

// RotateToward turns velocity toward the direction of target by at most
// maxTurn radians, keeping its magnitude.
func RotateToward(velocity, target Vec, maxTurn float64) Vec {
	desired := math.Atan2(target.Y, target.X)
	current := math.Atan2(velocity.Y, velocity.X)
	diff := desired - current
	diff = math.Atan2(math.Sin(diff), math.Cos(diff)) // wrap to [-π, π]
	diff = Clamp(diff, -maxTurn, maxTurn)
	angle := current + diff
	speed := velocity.Len()
	return Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
}
