package geometry

import "math"

// Steps is a lazy, one-shot sequence of galvo-safe points along a line.
// It yields the interpolated points first and then the exact endpoint, so
// every requested move produces at least one point.
type Steps struct {
	from Point
	to   Point
	step Point

	count int // interpolated points, endpoint excluded
	next  int
	done  bool
}

// Expand subdivides from→to so that the dominant axis advances by exactly
// quality per point. A step that would land on (or past) the endpoint is
// dropped, the endpoint itself always follows.
func Expand(from, to Point, quality float64) *Steps {
	s := &Steps{from: from, to: to}

	delta := to.Sub(from)
	dominant := math.Max(math.Abs(delta.X), math.Abs(delta.Y))
	if quality <= 0 || dominant == 0 {
		return s
	}

	s.count = int(dominant / quality)
	if float64(s.count)*quality >= dominant {
		s.count--
	}
	if s.count < 0 {
		s.count = 0
	}
	s.step = delta.Scale(quality / dominant)
	return s
}

// Next returns the next point, or false once the endpoint has been returned
func (s *Steps) Next() (Point, bool) {
	if s.next < s.count {
		s.next++
		return s.from.Add(s.step.Scale(float64(s.next))), true
	}
	if !s.done {
		s.done = true
		return s.to, true
	}
	return Point{}, false
}

// Len returns the total number of points the sequence yields
func (s *Steps) Len() int {
	return s.count + 1
}
