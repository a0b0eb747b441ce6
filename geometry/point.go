// Package geometry holds the coordinate math of the projector: clip
// regions, the warp homography, galvo-safe line interpolation and the
// 3D rotation used for projected shapes.
//
// All coordinates are float64 in the virtual DAC space [0, DACMax].
// Conversion to integer DAC codes happens only at the output stage.
package geometry

import "math"

// DACMax is the largest 12-bit DAC code.
const DACMax = 4095

// Center is the middle of the DAC range, used as the origin for 3D rotation.
const Center = 2048

// Point is a position in DAC space
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*s
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Chebyshev returns max(|dx|, |dy|) between p and q, the galvo step cost.
func Chebyshev(p, q Point) float64 {
	return math.Max(math.Abs(q.X-p.X), math.Abs(q.Y-p.Y))
}

// Near reports whether p and q are within tol on both axes
func Near(p, q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Quad is four ordered corner points
type Quad [4]Point

// FullQuad covers the whole DAC range.
var FullQuad = Quad{{0, 0}, {DACMax, 0}, {DACMax, DACMax}, {0, DACMax}}

// QuadFromInts builds a quad from x1,y1 ... x4,y4
func QuadFromInts(c [8]int) Quad {
	var q Quad
	for i := range q {
		q[i] = Point{X: float64(c[2*i]), Y: float64(c[2*i+1])}
	}
	return q
}

// signedArea is positive for counter-clockwise order (y up).
func (q Quad) signedArea() float64 {
	a := 0.0
	for i := range q {
		j := (i + 1) % 4
		a += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return a / 2
}

// RoundHalfUp converts v to the nearest integer, halves going up.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
