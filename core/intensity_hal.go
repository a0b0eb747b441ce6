package core

// IntensityMax is the full-scale value of one laser diode channel
const IntensityMax = 255

// IntensityDriver drives the red, green and blue diodes of one laser head.
// Platform-specific implementations map the 0..IntensityMax values onto
// PWM duty cycles or an analog modulation input.
type IntensityDriver interface {
	SetRGB(r, g, b uint8) error
}

// NopIntensity ignores all writes. Useful for heads wired without
// modulation inputs and for dry runs.
type NopIntensity struct{}

// SetRGB implements IntensityDriver
func (NopIntensity) SetRGB(r, g, b uint8) error {
	return nil
}
