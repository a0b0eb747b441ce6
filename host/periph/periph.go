// Package periph drives laser heads wired directly to a Linux board: the
// DAC on a spidev bus and the diodes on PWM-capable GPIO pins.
package periph

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"galvo/core"
)

// Init loads the periph.io host drivers
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	return nil
}

// OpenDAC opens the named SPI bus and connects to the DAC on it. The
// returned closer releases the bus.
func OpenDAC(name string, hz int) (spi.PortCloser, core.SPIDevice, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open SPI bus %q: %w", name, err)
	}

	c, err := p.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode(core.DACSPIMode), 8)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("failed to connect to DAC on %q: %w", name, err)
	}
	return p, c, nil
}

// pwmPin is the part of gpio.PinOut the intensity driver needs
type pwmPin interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// PWMIntensity drives the three diodes of a head with GPIO PWM. A diode
// without a pin is ignored.
type PWMIntensity struct {
	pins [3]pwmPin
	freq physic.Frequency
}

// NewPWMIntensity looks up the red, green and blue pins by name. Empty
// names leave that diode unconnected.
func NewPWMIntensity(red, green, blue string, hz int) (*PWMIntensity, error) {
	var pins [3]pwmPin
	for i, name := range []string{red, green, blue} {
		if name == "" {
			continue
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("GPIO pin %s not found", name)
		}
		pins[i] = p
	}
	return newPWMIntensity(pins, hz), nil
}

func newPWMIntensity(pins [3]pwmPin, hz int) *PWMIntensity {
	return &PWMIntensity{pins: pins, freq: physic.Frequency(hz) * physic.Hertz}
}

// SetRGB implements core.IntensityDriver
func (p *PWMIntensity) SetRGB(r, g, b uint8) error {
	for i, v := range [3]uint8{r, g, b} {
		pin := p.pins[i]
		if pin == nil {
			continue
		}
		if err := setLevel(pin, v, p.freq); err != nil {
			return err
		}
	}
	return nil
}

// setLevel maps 0..255 onto the PWM duty range. Off and full scale are
// driven as plain levels.
func setLevel(pin pwmPin, v uint8, freq physic.Frequency) error {
	switch v {
	case 0:
		return pin.Out(gpio.Low)
	case core.IntensityMax:
		return pin.Out(gpio.High)
	default:
		duty := gpio.Duty(int64(v) * int64(gpio.DutyMax) / core.IntensityMax)
		return pin.PWM(duty, freq)
	}
}
