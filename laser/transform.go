package laser

import (
	"galvo/core"
	"galvo/geometry"
)

// Transform maps virtual coordinates of one channel to output points:
// 3D projection, scale and offset, clipping, warp and interpolation.
type Transform struct {
	ch   *Channel
	sink Sink
}

// NewTransform creates the transform for ch writing to sink
func NewTransform(ch *Channel, sink Sink) *Transform {
	return &Transform{ch: ch, sink: sink}
}

// Channel returns the channel this transform serves
func (t *Transform) Channel() *Channel {
	return t.ch
}

// SendTo moves the beam to (x, y) with the given color and emission state.
// Nothing is emitted when the move lies fully outside the clip region.
func (t *Transform) SendTo(x, y float64, color Color, on bool) error {
	cal := t.ch.Calibration()
	from, moves := t.route(cal, x, y, color, on)
	if len(moves) == 0 {
		return nil
	}
	return Trace(cal, from, moves, cal.Quality, t.sink)
}

// Route places and clips one target and returns the clipped moves
// without warping or interpolating them. from is the point the first move
// starts at. Channel positions advance exactly as for SendTo.
func (t *Transform) Route(x, y float64, color Color, on bool) (from geometry.Point, moves []Move) {
	return t.route(t.ch.Calibration(), x, y, color, on)
}

func (t *Transform) route(cal Calibration, x, y float64, color Color, on bool) (geometry.Point, []Move) {
	target := cal.Place(x, y)
	from, entry, exit, ok := t.ch.advance(cal.Clip, target)
	if !ok {
		core.RecordTiming(core.EvtClipReject, uint8(t.ch.index), core.GetTime(), 0, 0)
		return from, nil
	}

	moves := make([]Move, 0, 2)
	if entry != from {
		moves = append(moves, Move{To: entry, Color: color, On: false})
	}
	return from, append(moves, Move{To: exit, Color: color, On: on})
}

// DrawLine draws a lit segment between two points, blanking on the way to
// the start and switching the laser off at the end.
func (t *Transform) DrawLine(x1, y1, x2, y2 float64, color Color) error {
	if err := t.SendTo(x1, y1, color, false); err != nil {
		return err
	}
	if err := t.SendTo(x2, y2, color, true); err != nil {
		return err
	}
	if s, ok := t.sink.(interface{ Off() error }); ok {
		return s.Off()
	}
	return nil
}

// Trace warps and interpolates moves starting at from, emitting every
// resulting point to sink with the color and state of its move.
func Trace(cal Calibration, from geometry.Point, moves []Move, quality float64, sink Sink) error {
	cursor := cal.Warp(from)
	for _, m := range moves {
		to := cal.Warp(m.To)
		steps := geometry.Expand(cursor, to, quality)
		for p, ok := steps.Next(); ok; p, ok = steps.Next() {
			if err := sink.Emit(Move{To: p, Color: m.Color, On: m.On}); err != nil {
				return err
			}
		}
		cursor = to
	}
	return nil
}
