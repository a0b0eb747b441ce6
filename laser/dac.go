package laser

import (
	"errors"
	"fmt"
)

// Axis selects one output of the dual DAC
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}
	return "X"
}

// Command nibbles for the MCP4922: channel select, unbuffered, 1x gain,
// output active.
const (
	dacCommandX = 0x30
	dacCommandY = 0xB0

	dacCommandMask = 0xF0
	dacCodeMask    = 0x0FFF
)

// DACFrame is one 16-bit register write, high byte first
type DACFrame [2]byte

// ErrDACFrame is returned when a frame does not carry a known command
var ErrDACFrame = errors.New("laser: malformed DAC frame")

// EncodeDACFrames builds the X and Y register writes for 12-bit codes.
// Codes are expected to be in range already; excess bits are masked.
func EncodeDACFrames(x, y int) (DACFrame, DACFrame) {
	return encodeFrame(dacCommandX, x), encodeFrame(dacCommandY, y)
}

func encodeFrame(cmd byte, code int) DACFrame {
	v := uint16(code) & dacCodeMask
	return DACFrame{cmd | byte(v>>8), byte(v)}
}

// DecodeDACFrame returns the axis and 12-bit code carried by a frame
func DecodeDACFrame(b []byte) (Axis, int, error) {
	if len(b) != 2 {
		return 0, 0, fmt.Errorf("%w: length %d", ErrDACFrame, len(b))
	}
	code := int(uint16(b[0]&^dacCommandMask)<<8 | uint16(b[1]))
	switch b[0] & dacCommandMask {
	case dacCommandX:
		return AxisX, code, nil
	case dacCommandY:
		return AxisY, code, nil
	default:
		return 0, 0, fmt.Errorf("%w: command 0x%02x", ErrDACFrame, b[0]&dacCommandMask)
	}
}
