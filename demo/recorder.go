// Package demo holds the show content and the recording hardware shared by
// the host tools. Nothing here touches real devices.
package demo

import (
	"fmt"

	"galvo/core"
	"galvo/geometry"
	"galvo/laser"
)

// Sample is one beam position as seen on the DAC lines
type Sample struct {
	Code  geometry.Point // raw DAC codes, after mirroring
	Color laser.Color    // diode intensity when the position was latched
}

// Lit reports whether any diode was on
func (s Sample) Lit() bool {
	return !s.Color.IsBlack()
}

// Recorder stands in for a head's DAC and diodes. It decodes the register
// writes back into beam positions.
type Recorder struct {
	color    laser.Color
	pendingX int
	haveX    bool
	samples  []Sample
}

var (
	_ core.SPIDevice       = (*Recorder)(nil)
	_ core.IntensityDriver = (*Recorder)(nil)
)

// Tx implements core.SPIDevice. An X write is held until the matching Y
// write latches the position.
func (r *Recorder) Tx(w, _ []byte) error {
	axis, code, err := laser.DecodeDACFrame(w)
	if err != nil {
		return err
	}
	switch axis {
	case laser.AxisX:
		r.pendingX = code
		r.haveX = true
	case laser.AxisY:
		if !r.haveX {
			return fmt.Errorf("demo: Y write without X")
		}
		r.haveX = false
		r.samples = append(r.samples, Sample{
			Code:  geometry.Pt(float64(r.pendingX), float64(code)),
			Color: r.color,
		})
	}
	return nil
}

// SetRGB implements core.IntensityDriver
func (r *Recorder) SetRGB(red, green, blue uint8) error {
	r.color = laser.Color{R: red, G: green, B: blue}
	return nil
}

// Samples returns the positions recorded since the last Reset
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Reset drops the recorded positions, keeping the diode state
func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
	r.haveX = false
}
