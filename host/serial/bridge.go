package serial

import (
	"fmt"
	"sync"

	"galvo/core"
	"galvo/protocol"
)

// Bridge sends per-head DAC and intensity commands over one port
type Bridge struct {
	mu   sync.Mutex
	port Port
	seq  uint8
	buf  []byte
}

// NewBridge wraps an open port
func NewBridge(port Port) *Bridge {
	return &Bridge{port: port, buf: make([]byte, 0, protocol.MessageLengthMax)}
}

// Send writes one command frame
func (b *Bridge) Send(cmd byte, head int, args ...byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	payload := append([]byte{cmd, byte(head)}, args...)
	frame, err := protocol.EncodeFrame(b.buf[:0], b.seq, payload)
	if err != nil {
		return err
	}
	b.seq = (b.seq + 1) & protocol.MessageSeqMask

	if _, err := b.port.Write(frame); err != nil {
		return fmt.Errorf("bridge write: %w", err)
	}
	return nil
}

// DAC returns the DAC bus of one head
func (b *Bridge) DAC(head int) core.SPIDevice {
	return bridgeDAC{bridge: b, head: head}
}

// Intensity returns the diode driver of one head
func (b *Bridge) Intensity(head int) core.IntensityDriver {
	return bridgeIntensity{bridge: b, head: head}
}

// Close closes the underlying port
func (b *Bridge) Close() error {
	return b.port.Close()
}

type bridgeDAC struct {
	bridge *Bridge
	head   int
}

// Tx forwards one 2-byte register write. Reads are not supported.
func (d bridgeDAC) Tx(w, r []byte) error {
	if len(w) != 2 {
		return fmt.Errorf("bridge dac: %d byte transfer, want 2", len(w))
	}
	return d.bridge.Send(protocol.CmdDAC, d.head, w...)
}

type bridgeIntensity struct {
	bridge *Bridge
	head   int
}

func (i bridgeIntensity) SetRGB(r, g, b uint8) error {
	return i.bridge.Send(protocol.CmdRGB, i.head, r, g, b)
}
