package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame means more bytes are needed to decode a frame
	ErrShortFrame = errors.New("protocol: incomplete frame")

	// ErrBadFrame means the data at the start of the buffer is not a
	// valid frame; skip to the next sync byte and retry
	ErrBadFrame = errors.New("protocol: bad frame")
)

// Frame is one decoded message
type Frame struct {
	Seq     uint8
	Payload []byte
}

// Command returns the bridge command, head and arguments of the payload
func (f Frame) Command() (cmd, head byte, args []byte, err error) {
	if len(f.Payload) < 2 {
		return 0, 0, nil, fmt.Errorf("%w: payload of %d bytes", ErrBadFrame, len(f.Payload))
	}
	return f.Payload[0], f.Payload[1], f.Payload[2:], nil
}

// EncodeFrame appends one frame carrying payload to dst
func EncodeFrame(dst []byte, seq uint8, payload []byte) ([]byte, error) {
	if len(payload) > MessagePayloadMax {
		return dst, fmt.Errorf("%w: payload of %d bytes", ErrBadFrame, len(payload))
	}

	start := len(dst)
	msgLen := len(payload) + MessageLengthMin
	dst = append(dst, uint8(msgLen), MessageDest|seq&MessageSeqMask)
	dst = append(dst, payload...)

	crc := CRC16(dst[start:])
	return append(dst,
		uint8((crc&0xFF00)>>8),
		uint8(crc&0xFF),
		MessageValueSync,
	), nil
}

// DecodeFrame decodes the frame at the start of data and returns the
// number of bytes it used. Leading sync bytes are skipped.
func DecodeFrame(data []byte) (Frame, int, error) {
	skipped := 0
	for len(data) > 0 && data[0] == MessageValueSync {
		data = data[1:]
		skipped++
	}

	if len(data) < MessageLengthMin {
		return Frame{}, skipped, ErrShortFrame
	}

	msgLen := int(data[MessagePositionLen])
	if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
		return Frame{}, skipped, fmt.Errorf("%w: length %d", ErrBadFrame, msgLen)
	}

	seq := data[MessagePositionSeq]
	if seq&^MessageSeqMask != MessageDest {
		return Frame{}, skipped, fmt.Errorf("%w: sequence 0x%02x", ErrBadFrame, seq)
	}

	if len(data) < msgLen {
		return Frame{}, skipped, ErrShortFrame
	}

	if data[msgLen-MessageTrailerSync] != MessageValueSync {
		return Frame{}, skipped, fmt.Errorf("%w: missing sync", ErrBadFrame)
	}

	frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
		uint16(data[msgLen-MessageTrailerCRC+1])
	if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
		return Frame{}, skipped, fmt.Errorf("%w: crc mismatch", ErrBadFrame)
	}

	payload := append([]byte(nil), data[MessageHeaderSize:msgLen-MessageTrailerSize]...)
	return Frame{Seq: seq & MessageSeqMask, Payload: payload}, skipped + msgLen, nil
}

// Resync returns the offset of the next sync byte after a bad frame, or
// len(data) when there is none
func Resync(data []byte) int {
	for i := 1; i < len(data); i++ {
		if data[i] == MessageValueSync {
			return i
		}
	}
	return len(data)
}
