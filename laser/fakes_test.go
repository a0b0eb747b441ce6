package laser

import (
	"time"

	"galvo/geometry"
)

// recordingBus captures every SPI transfer
type recordingBus struct {
	frames [][]byte
	err    error
}

func (b *recordingBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.frames = append(b.frames, append([]byte(nil), w...))
	return nil
}

// codes decodes the recorded frames into (x, y) code pairs
func (b *recordingBus) codes() [][2]int {
	var out [][2]int
	for i := 0; i+1 < len(b.frames); i += 2 {
		_, x, _ := DecodeDACFrame(b.frames[i])
		_, y, _ := DecodeDACFrame(b.frames[i+1])
		out = append(out, [2]int{x, y})
	}
	return out
}

// recordingDiodes captures every intensity write
type recordingDiodes struct {
	writes []Color
	err    error
}

func (d *recordingDiodes) SetRGB(r, g, b uint8) error {
	if d.err != nil {
		return d.err
	}
	d.writes = append(d.writes, Color{R: r, G: g, B: b})
	return nil
}

// recordingSleep captures requested delays instead of sleeping
type recordingSleep struct {
	waits []time.Duration
}

func (s *recordingSleep) sleep(d time.Duration) {
	s.waits = append(s.waits, d)
}

func newTestOutput() (*Output, *recordingBus, *recordingDiodes, *recordingSleep) {
	bus := &recordingBus{}
	diodes := &recordingDiodes{}
	clock := &recordingSleep{}
	out := NewOutput(NewChannel(0), bus, diodes)
	out.SetSleepFunc(clock.sleep)
	return out, bus, diodes, clock
}

func points(moves []Move) []geometry.Point {
	pts := make([]geometry.Point, len(moves))
	for i, m := range moves {
		pts[i] = m.To
	}
	return pts
}
