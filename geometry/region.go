package geometry

import "math"

// Region is a clip area in DAC space.
//
// Clip returns the part of the segment p0→p1 that lies inside the region.
// ok is false when no part of the segment is inside; callers treat that as
// a silent no-op for the move.
type Region interface {
	Clip(p0, p1 Point) (c0, c1 Point, ok bool)

	// Quad returns the region's corners in order
	Quad() Quad
}

// Outcode bits for Cohen-Sutherland clipping
const (
	outInside = 0
	outLeft   = 1
	outRight  = 2
	outBottom = 4
	outTop    = 8
)

// maxClipPasses bounds the outcode loop. Each pass pins one coordinate to
// a boundary, so a well-formed rectangle needs at most four.
const maxClipPasses = 8

// Rect is an axis-aligned clip rectangle, boundaries inclusive
type Rect struct {
	XMin, YMin float64
	XMax, YMax float64
}

// NewRect builds a Rect from two opposite corners in any order
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		XMin: math.Min(x0, x1),
		YMin: math.Min(y0, y1),
		XMax: math.Max(x0, x1),
		YMax: math.Max(y0, y1),
	}
}

// FullRect covers the whole DAC range
var FullRect = Rect{XMin: 0, YMin: 0, XMax: DACMax, YMax: DACMax}

func (r Rect) outCode(p Point) int {
	code := outInside
	if p.X < r.XMin {
		code |= outLeft
	} else if p.X > r.XMax {
		code |= outRight
	}
	if p.Y < r.YMin {
		code |= outBottom
	} else if p.Y > r.YMax {
		code |= outTop
	}
	return code
}

// Clip implements Cohen-Sutherland. A violated boundary implies a non-zero
// delta on that axis, so the slope divisions are safe.
func (r Rect) Clip(p0, p1 Point) (Point, Point, bool) {
	code0 := r.outCode(p0)
	code1 := r.outCode(p1)

	for pass := 0; pass < maxClipPasses; pass++ {
		if code0|code1 == 0 {
			return p0, p1, true
		}
		if code0&code1 != 0 {
			return p0, p1, false
		}

		// At least one endpoint is outside, move it onto the boundary
		out := code0
		if out == 0 {
			out = code1
		}

		var p Point
		switch {
		case out&outTop != 0:
			p = Point{X: p0.X + (p1.X-p0.X)*(r.YMax-p0.Y)/(p1.Y-p0.Y), Y: r.YMax}
		case out&outBottom != 0:
			p = Point{X: p0.X + (p1.X-p0.X)*(r.YMin-p0.Y)/(p1.Y-p0.Y), Y: r.YMin}
		case out&outRight != 0:
			p = Point{X: r.XMax, Y: p0.Y + (p1.Y-p0.Y)*(r.XMax-p0.X)/(p1.X-p0.X)}
		case out&outLeft != 0:
			p = Point{X: r.XMin, Y: p0.Y + (p1.Y-p0.Y)*(r.XMin-p0.X)/(p1.X-p0.X)}
		}

		if out == code0 {
			p0 = p
			code0 = r.outCode(p0)
		} else {
			p1 = p
			code1 = r.outCode(p1)
		}
	}
	return p0, p1, false
}

// Quad returns the corners counter-clockwise starting at (XMin, YMin)
func (r Rect) Quad() Quad {
	return Quad{
		{r.XMin, r.YMin},
		{r.XMax, r.YMin},
		{r.XMax, r.YMax},
		{r.XMin, r.YMax},
	}
}

// ConvexQuad is a clip area bounded by four ordered corners. Either winding
// order is accepted.
type ConvexQuad struct {
	Points Quad
}

// Clip implements parametric half-plane clipping (Liang-Barsky style).
func (q ConvexQuad) Clip(p0, p1 Point) (Point, Point, bool) {
	dir := p1.Sub(p0)
	tEnterMax := 0.0
	tLeaveMin := 1.0

	// Flip the edge normals for clockwise quads so they always point inward
	sign := 1.0
	if q.Points.signedArea() < 0 {
		sign = -1.0
	}

	for i := 0; i < 4; i++ {
		a := q.Points[i]
		b := q.Points[(i+1)%4]
		nx := (a.Y - b.Y) * sign
		ny := (b.X - a.X) * sign

		numerator := nx*(a.X-p0.X) + ny*(a.Y-p0.Y)
		denominator := nx*dir.X + ny*dir.Y

		if denominator == 0 {
			// Parallel to this edge: either entirely inside its half-plane or out
			if numerator > 0 {
				return p0, p1, false
			}
			continue
		}

		t := numerator / denominator
		if denominator > 0 {
			tEnterMax = math.Max(tEnterMax, t)
		} else {
			tLeaveMin = math.Min(tLeaveMin, t)
		}
	}

	if tEnterMax > tLeaveMin {
		return p0, p1, false
	}
	return p0.Add(dir.Scale(tEnterMax)), p0.Add(dir.Scale(tLeaveMin)), true
}

// Quad returns the corners as given
func (q ConvexQuad) Quad() Quad {
	return q.Points
}

// NewQuadRegion returns the Rect fast path when the corners describe an
// axis-aligned rectangle and a ConvexQuad otherwise.
func NewQuadRegion(q Quad) Region {
	aligned := true
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		if a.X != b.X && a.Y != b.Y {
			aligned = false
			break
		}
	}
	if aligned && q.signedArea() != 0 {
		return NewRect(q[0].X, q[0].Y, q[2].X, q[2].Y)
	}
	return ConvexQuad{Points: q}
}
