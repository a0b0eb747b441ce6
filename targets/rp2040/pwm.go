//go:build rp2040 || rp2350

package main

import (
	"machine"

	"galvo/core"
)

// Diode wiring and PWM carrier
const (
	redPin   = machine.GPIO2
	greenPin = machine.GPIO3
	bluePin  = machine.GPIO4

	pwmPeriodNS = 50000 // 20kHz
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type pwmOutput struct {
	pwm     pwmPeripheral
	channel uint8
}

// rgbPWM drives the three diodes of the head from hardware PWM slices
type rgbPWM struct {
	outputs [3]pwmOutput
}

var _ core.IntensityDriver = (*rgbPWM)(nil)

// configureIntensity sets up one PWM channel per diode
func configureIntensity() (*rgbPWM, error) {
	d := &rgbPWM{}
	for i, pin := range [3]machine.Pin{redPin, greenPin, bluePin} {
		// GPIO N belongs to slice (N >> 1) & 7
		pwm := pwmSlice(uint8((pin >> 1) & 0x7))
		if err := pwm.Configure(machine.PWMConfig{Period: pwmPeriodNS}); err != nil {
			return nil, err
		}
		ch, err := pwm.Channel(pin)
		if err != nil {
			return nil, err
		}
		d.outputs[i] = pwmOutput{pwm: pwm, channel: ch}
	}
	return d, nil
}

// SetRGB implements core.IntensityDriver
func (d *rgbPWM) SetRGB(r, g, b uint8) error {
	for i, v := range [3]uint8{r, g, b} {
		out := d.outputs[i]
		// Scale 0..255 to 0..Top()
		out.pwm.Set(out.channel, uint32(v)*out.pwm.Top()/core.IntensityMax)
	}
	return nil
}

// pwmSlice returns the PWM peripheral for a given slice number
func pwmSlice(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
