// Package frame synchronizes the laser heads of a multi-head show. Moves
// are collected per channel for one frame, then every channel's point
// count is balanced against the longest path so all heads finish the
// frame together, and the points are emitted in lock-step.
package frame

import (
	"errors"
	"fmt"
	"sync"

	"galvo/core"
	"galvo/geometry"
	"galvo/laser"
)

// BaseQuality is the interpolation step of the channel with the longest
// path in a frame.
const BaseQuality = 32

// minPathLength is one DAC step. Shorter frames do not move the beam by
// a whole code and are skipped like empty ones.
const minPathLength = 1

// ErrNotAttached is returned when moves are inserted for a channel that
// has no output attached
var ErrNotAttached = errors.New("frame: channel has no output attached")

// Plan is the balancing result for one channel
type Plan struct {
	Channel int
	Length  float64 // Chebyshev path length of the raw moves
	Repeats int
	Quality float64
	Points  []laser.Move // finalized points, already warped
}

type channelFrame struct {
	active bool
	start  geometry.Point // position before the first move of the frame
	moves  []laser.Move
}

// Manager collects one frame of moves per channel and draws them
// balanced.
type Manager struct {
	base       float64
	transforms [laser.NumChannels]*laser.Transform
	sinks      [laser.NumChannels]laser.Sink

	mu     sync.Mutex
	frames [laser.NumChannels]channelFrame
}

// NewManager creates a manager for the channels of reg. A base quality
// of zero or less selects BaseQuality.
func NewManager(reg *laser.Registry, base float64) *Manager {
	if base <= 0 {
		base = BaseQuality
	}
	m := &Manager{base: base}
	for i, ch := range reg.Channels() {
		m.transforms[i] = laser.NewTransform(ch, nil)
	}
	return m
}

// Attach routes the finalized points of channel ch to sink
func (m *Manager) Attach(ch int, sink laser.Sink) error {
	if ch < 0 || ch >= laser.NumChannels {
		return fmt.Errorf("%w: %d", laser.ErrChannelIndex, ch)
	}
	m.mu.Lock()
	m.sinks[ch] = sink
	m.mu.Unlock()
	return nil
}

// Insert places and clips one move for channel ch and appends it to the
// current frame. Clip-rejected moves add nothing but still advance the
// channel's unclipped position.
func (m *Manager) Insert(ch int, x, y float64, color laser.Color, on bool) error {
	if ch < 0 || ch >= laser.NumChannels {
		return fmt.Errorf("%w: %d", laser.ErrChannelIndex, ch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(ch, x, y, color, on)
}

// InsertObject inserts obj scaled by scale and translated by (tx, ty),
// ending blanked on its last vertex.
func (m *Manager) InsertObject(ch int, obj []laser.ObjectPoint, color laser.Color, tx, ty, scale float64) error {
	if ch < 0 || ch >= laser.NumChannels {
		return fmt.Errorf("%w: %d", laser.ErrChannelIndex, ch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return laser.PlotObject(obj, color, tx, ty, scale, func(x, y float64, c laser.Color, on bool) error {
		return m.insertLocked(ch, x, y, c, on)
	})
}

// InsertObjectRotated3D inserts obj translated by (cx, cy) through the
// channel's 3D step with rotation rot. The channel leaves 3D mode again
// once the object is placed.
func (m *Manager) InsertObjectRotated3D(ch int, obj []laser.ObjectPoint, color laser.Color, cx, cy float64, rot geometry.Matrix4) error {
	if ch < 0 || ch >= laser.NumChannels {
		return fmt.Errorf("%w: %d", laser.ErrChannelIndex, ch)
	}
	return m.transforms[ch].Channel().With3D(rot, func() error {
		return m.InsertObject(ch, obj, color, cx, cy, 1)
	})
}

func (m *Manager) insertLocked(ch int, x, y float64, color laser.Color, on bool) error {
	if m.sinks[ch] == nil {
		return fmt.Errorf("%w: %d", ErrNotAttached, ch)
	}

	from, moves := m.transforms[ch].Route(x, y, color, on)
	f := &m.frames[ch]
	if !f.active {
		f.active = true
		f.start = from
	}
	f.moves = append(f.moves, moves...)
	return nil
}

// Balance computes the plan for every channel whose path in the current
// frame covers at least one DAC step, in channel order. The frame is left
// untouched.
func (m *Manager) Balance() []Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked()
}

func (m *Manager) balanceLocked() []Plan {
	var plans []Plan
	for i := range m.frames {
		f := &m.frames[i]
		if !f.active {
			continue
		}
		length := pathLength(f.start, f.moves)
		if length < minPathLength {
			continue
		}
		plans = append(plans, Plan{Channel: i, Length: length, Repeats: 1, Quality: m.base})
	}
	if len(plans) == 0 {
		return nil
	}

	ref := 0
	for i := range plans {
		if plans[i].Length > plans[ref].Length {
			ref = i
		}
	}
	refLength := plans[ref].Length

	for i := range plans {
		p := &plans[i]
		if i != ref {
			p.Repeats = repeatsFor(p.Length, refLength)
			p.Quality = m.base * p.Length * float64(p.Repeats) / refLength
		}
		p.Points = m.finalize(p, &m.frames[p.Channel])
	}
	return plans
}

// finalize re-runs interpolation over the raw moves once per repeat. Each
// pass starts where the previous one ended.
func (m *Manager) finalize(p *Plan, f *channelFrame) []laser.Move {
	cal := m.transforms[p.Channel].Channel().Calibration()
	var points laser.MoveList
	from := f.start
	for r := 0; r < p.Repeats; r++ {
		// MoveList.Emit cannot fail
		_ = laser.Trace(cal, from, f.moves, p.Quality, &points)
		from = f.moves[len(f.moves)-1].To
	}
	return points
}

// Draw balances the current frame, emits it in lock-step across channels
// and starts a new frame. Channels that run out of points stop while the
// others continue. The frame is discarded even when a sink fails.
func (m *Manager) Draw() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	plans := m.balanceLocked()
	m.frames = [laser.NumChannels]channelFrame{}

	longest, total := 0, 0
	for _, p := range plans {
		longest = max(longest, len(p.Points))
		total += len(p.Points)
	}

	for i := 0; i < longest; i++ {
		for _, p := range plans {
			if i >= len(p.Points) {
				continue
			}
			if err := m.sinks[p.Channel].Emit(p.Points[i]); err != nil {
				return fmt.Errorf("channel %d: %w", p.Channel, err)
			}
		}
	}

	if len(plans) > 0 {
		core.RecordTiming(core.EvtFrameDrawn, uint8(len(plans)), core.GetTime(), uint32(longest), uint32(total))
	}
	return nil
}

// Pending reports whether any channel has moves waiting for Draw
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.frames {
		if len(f.moves) > 0 {
			return true
		}
	}
	return false
}

func pathLength(start geometry.Point, moves []laser.Move) float64 {
	var length float64
	cursor := start
	for _, mv := range moves {
		length += geometry.Chebyshev(cursor, mv.To)
		cursor = mv.To
	}
	return length
}

// repeatsFor returns the largest r >= 1 with r*length <= refLength
func repeatsFor(length, refLength float64) int {
	r := int(refLength / length)
	if r < 1 {
		return 1
	}
	if float64(r+1)*length <= refLength {
		r++
	} else if float64(r)*length > refLength && r > 1 {
		r--
	}
	return r
}
