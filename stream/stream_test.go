package stream

import (
	"time"

	"galvo/laser"
)

// coarse disables interpolation for moves shorter than the DAC range
const coarse = 8192

type recordingBus struct {
	frames [][]byte
}

func (b *recordingBus) Tx(w, r []byte) error {
	b.frames = append(b.frames, append([]byte(nil), w...))
	return nil
}

type recordingDiodes struct {
	writes []laser.Color
}

func (d *recordingDiodes) SetRGB(r, g, b uint8) error {
	d.writes = append(d.writes, laser.Color{R: r, G: g, B: b})
	return nil
}

func newTestOutput() (*laser.Output, *recordingBus, *recordingDiodes) {
	bus := &recordingBus{}
	diodes := &recordingDiodes{}
	out := laser.NewOutput(laser.NewChannel(0), bus, diodes)
	out.SetSleepFunc(func(time.Duration) {})
	return out, bus, diodes
}
