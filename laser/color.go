package laser

// Color is the RGB intensity of one laser head, 0..255 per diode
type Color struct {
	R, G, B uint8
}

// Black is all diodes off
var Black = Color{}

// White is all diodes at full scale
var White = Color{R: 255, G: 255, B: 255}

// IsBlack reports whether every diode is off
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// ColorFromHSL converts hue (degrees), saturation and lightness (percent)
// to RGB using integer math only, so it is cheap on targets without an FPU.
// Out-of-range inputs wrap (hue) or saturate (saturation, lightness).
func ColorFromHSL(hue, saturation, lightness int) Color {
	hue %= 360
	if hue < 0 {
		hue += 360
	}
	saturation = clampPercent(saturation)
	lightness = clampPercent(lightness)

	if saturation == 0 {
		v := uint8(lightness * 255 / 100)
		return Color{R: v, G: v, B: v}
	}

	var v2 int
	if lightness < 50 {
		v2 = lightness * (100 + saturation)
	} else {
		v2 = (lightness+saturation)*100 - saturation*lightness
	}
	v1 := lightness*200 - v2

	redHue := hue + 120
	if hue >= 240 {
		redHue = hue - 240
	}
	blueHue := hue + 240
	if hue >= 120 {
		blueHue = hue - 120
	}

	return Color{
		R: uint8(hueChannel(v1, v2, redHue) * 255 / 600000),
		G: uint8(hueChannel(v1, v2, hue) * 255 / 600000),
		B: uint8(hueChannel(v1, v2, blueHue) * 255 / 600000),
	}
}

// hueChannel returns one channel scaled by 60*10000
func hueChannel(v1, v2, hue int) int {
	switch {
	case hue < 60:
		return v1*60 + (v2-v1)*hue
	case hue < 180:
		return v2 * 60
	case hue < 240:
		return v1*60 + (v2-v1)*(240-hue)
	default:
		return v1 * 60
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
