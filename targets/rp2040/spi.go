//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers"

	"galvo/core"
)

// DAC wiring: MCP4922 on SPI1
const (
	dacPinSCK  = machine.GPIO10
	dacPinMOSI = machine.GPIO11
	dacPinMISO = machine.GPIO12
	dacPinCS   = machine.GPIO13
)

// csDevice asserts a chip select pin around every transfer on a shared
// bus
type csDevice struct {
	bus drivers.SPI
	cs  machine.Pin
}

var _ core.SPIDevice = (*csDevice)(nil)

// Tx implements core.SPIDevice
func (d *csDevice) Tx(w, r []byte) error {
	d.cs.Low()
	err := d.bus.Tx(w, r)
	d.cs.High()
	return err
}

// configureDAC sets up SPI1 for the DAC and returns the chip-selected
// device
func configureDAC() (*csDevice, error) {
	dacPinCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dacPinCS.High()

	err := machine.SPI1.Configure(machine.SPIConfig{
		Frequency: core.DACSPIRate,
		SCK:       dacPinSCK,
		SDO:       dacPinMOSI, // SDO = Serial Data Out (MOSI)
		SDI:       dacPinMISO, // SDI = Serial Data In (MISO)
		Mode:      uint8(core.DACSPIMode),
	})
	if err != nil {
		return nil, err
	}

	return &csDevice{bus: machine.SPI1, cs: dacPinCS}, nil
}
