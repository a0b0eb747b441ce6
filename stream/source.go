// Package stream feeds a single laser head from a point source: a
// producer transforms source points into output points and fills a
// bounded queue, a consumer drains it at a fixed tick and blanks the
// laser when the source starves.
package stream

import (
	"math"

	"galvo/geometry"
	"galvo/laser"
)

// SourcePoint is one point delivered by a point source, in DAC space
type SourcePoint struct {
	X, Y    uint16
	R, G, B uint8
}

// Idle reports whether p is the all-zero no-op point
func (p SourcePoint) Idle() bool {
	return p == SourcePoint{}
}

// Color returns the point's color
func (p SourcePoint) Color() laser.Color {
	return laser.Color{R: p.R, G: p.G, B: p.B}
}

// Lit reports whether the point should be drawn with the laser on
func (p SourcePoint) Lit() bool {
	return !p.Color().IsBlack()
}

// PointSource yields points on demand. It returns the idle point when it
// has nothing to draw.
type PointSource interface {
	NextPoint() SourcePoint
}

// CircleSource draws a rainbow circle, stepping a fixed angle per point.
// It is the bring-up pattern for a new head.
type CircleSource struct {
	Center geometry.Point
	Radius float64
	Step   int // degrees per point

	angle int
}

// NewCircleSource returns the default test circle
func NewCircleSource() *CircleSource {
	return &CircleSource{
		Center: geometry.Pt(geometry.Center, geometry.Center),
		Radius: 1000,
		Step:   8,
	}
}

// NextPoint implements PointSource
func (c *CircleSource) NextPoint() SourcePoint {
	d := c.angle
	rad := float64(d) * math.Pi / 180
	p := SourcePoint{
		X: uint16(c.Radius*math.Sin(rad) + c.Center.X),
		Y: uint16(c.Radius*math.Cos(rad) + c.Center.Y),
		R: uint8(d % 255),
		G: uint8((d + 60) % 255),
		B: uint8((d + 120) % 255),
	}
	c.angle = (d + c.Step) % 360
	return p
}

// SliceSource replays a fixed list of points forever
type SliceSource struct {
	points []SourcePoint
	next   int
}

// NewSliceSource creates a source looping over points. An empty list
// yields the idle point.
func NewSliceSource(points ...SourcePoint) *SliceSource {
	return &SliceSource{points: points}
}

// NextPoint implements PointSource
func (s *SliceSource) NextPoint() SourcePoint {
	if len(s.points) == 0 {
		return SourcePoint{}
	}
	p := s.points[s.next]
	s.next = (s.next + 1) % len(s.points)
	return p
}
