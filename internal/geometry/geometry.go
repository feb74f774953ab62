// Package geometry provides 2D geometric primitives for landmark analysis.
package geometry

import (
	"math"
	"sort"
)

// Point represents a 2D point in pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Angle calculates the angle in degrees formed at vertex by the points
// p1-vertex-p3. Returns 0 if either vector has zero length, which avoids
// division by zero for coincident landmarks.
func Angle(p1, vertex, p3 Point) float64 {
	v1 := Point{X: p1.X - vertex.X, Y: p1.Y - vertex.Y}
	v2 := Point{X: p3.X - vertex.X, Y: p3.Y - vertex.Y}

	norm1 := math.Hypot(v1.X, v1.Y)
	norm2 := math.Hypot(v2.X, v2.Y)
	if norm1 == 0 || norm2 == 0 {
		return 0
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y) / (norm1 * norm2)
	cos = Clamp(cos, -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

// Ratio divides value by baseline. A zero baseline yields 1.0 so a bad
// calibration sample cannot propagate Inf/NaN into detection results.
func Ratio(value, baseline float64) float64 {
	if baseline == 0 {
		return 1.0
	}
	return value / baseline
}

// Smooth applies single-pole exponential smoothing. A factor of 1 returns
// current unchanged; a factor of 0 freezes at previous.
func Smooth(current, previous, factor float64) float64 {
	return factor*current + (1-factor)*previous
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Median returns the median of the values. For an even count it averages
// the two middle values. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
