package laser

import (
	"fmt"
	"sync"
	"time"

	"galvo/core"
	"galvo/geometry"
)

// Move is one point handed to the output stage. The segment it draws
// starts at the previous move's To.
type Move struct {
	To    geometry.Point
	Color Color
	On    bool
}

// Sink receives the points produced by a Transform
type Sink interface {
	Emit(m Move) error
}

// MoveList is a Sink that collects moves in memory
type MoveList []Move

// Emit implements Sink
func (l *MoveList) Emit(m Move) error {
	*l = append(*l, m)
	return nil
}

// Output drives the DAC and diodes of one laser head. Mirroring and the
// toggle delay are read from the channel on every call.
type Output struct {
	ch        *Channel
	dac       core.SPIDevice
	intensity core.IntensityDriver
	sleep     func(time.Duration)

	mu       sync.Mutex
	color    Color
	on       bool
	driven   Color // last value written to the intensity driver
	isDriven bool
	dacDelay time.Duration
	last     geometry.Point
}

// NewOutput creates the output stage for ch. A nil intensity driver means
// the head has no modulation inputs.
func NewOutput(ch *Channel, dac core.SPIDevice, intensity core.IntensityDriver) *Output {
	if intensity == nil {
		intensity = core.NopIntensity{}
	}
	return &Output{
		ch:        ch,
		dac:       dac,
		intensity: intensity,
		sleep:     time.Sleep,
	}
}

// Channel returns the channel this output serves
func (o *Output) Channel() *Channel {
	return o.ch
}

// SetSleepFunc replaces the function used for settle delays
func (o *Output) SetSleepFunc(sleep func(time.Duration)) {
	o.mu.Lock()
	o.sleep = sleep
	o.mu.Unlock()
}

// SetDelays sets the laser toggle delay and the DAC settle delay waited
// after every point. Negative values leave a setting unchanged.
func (o *Output) SetDelays(toggle, dac time.Duration) {
	if toggle >= 0 {
		o.ch.SetToggleDelay(toggle)
	}
	if dac >= 0 {
		o.mu.Lock()
		o.dacDelay = dac
		o.mu.Unlock()
	}
}

// Delays returns the toggle and DAC settle delays
func (o *Output) Delays() (toggle, dac time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ch.ToggleDelay(), o.dacDelay
}

// WriteDAC moves the beam to p. Coordinates are rounded and clamped to the
// DAC range, the Y axis is inverted for the mounting, then swap and flips
// apply.
func (o *Output) WriteDAC(p geometry.Point) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writeLocked(p)
}

func (o *Output) writeLocked(p geometry.Point) error {
	x := clampCode(geometry.RoundHalfUp(p.X))
	y := clampCode(geometry.RoundHalfUp(p.Y))
	o.last = geometry.Pt(float64(x), float64(y))

	y = geometry.DACMax - y

	m := o.ch.Mirroring()
	if m.SwapXY {
		x, y = y, x
	}
	if m.X {
		x = geometry.DACMax - x
	}
	if m.Y {
		y = geometry.DACMax - y
	}

	fx, fy := EncodeDACFrames(x, y)
	if err := o.dac.Tx(fx[:], nil); err != nil {
		return fmt.Errorf("dac x write: %w", err)
	}
	if err := o.dac.Tx(fy[:], nil); err != nil {
		return fmt.Errorf("dac y write: %w", err)
	}

	if o.dacDelay > 0 {
		o.sleep(o.dacDelay)
	}
	return nil
}

// Position returns the last point written, after rounding and clamping
func (o *Output) Position() geometry.Point {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// SetColor sets the emission color. A lit laser changes color at once.
func (o *Output) SetColor(c Color) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setColorLocked(c)
}

func (o *Output) setColorLocked(c Color) error {
	o.color = c
	if !o.on {
		return nil
	}
	return o.driveLocked(c)
}

// Color returns the emission color
func (o *Output) Color() Color {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.color
}

// On enables emission at the current color
func (o *Output) On() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.switchLocked(true)
}

// Off disables emission. The beam position is not touched.
func (o *Output) Off() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.switchLocked(false)
}

// IsOn reports whether emission is enabled
func (o *Output) IsOn() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.on
}

func (o *Output) switchLocked(on bool) error {
	if o.on != on {
		if d := o.ch.ToggleDelay(); d > 0 {
			o.sleep(d)
		}
		o.on = on
	}
	if on {
		return o.driveLocked(o.color)
	}
	return o.driveLocked(Black)
}

func (o *Output) driveLocked(c Color) error {
	if o.isDriven && o.driven == c {
		return nil
	}
	if err := o.intensity.SetRGB(c.R, c.G, c.B); err != nil {
		return fmt.Errorf("intensity write: %w", err)
	}
	o.driven = c
	o.isDriven = true
	return nil
}

// Emit implements Sink: color, then emission state, then position.
func (o *Output) Emit(m Move) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.color = m.Color
	if err := o.switchLocked(m.On); err != nil {
		return err
	}
	return o.writeLocked(m.To)
}

func clampCode(v int) int {
	if v < 0 {
		return 0
	}
	if v > geometry.DACMax {
		return geometry.DACMax
	}
	return v
}
