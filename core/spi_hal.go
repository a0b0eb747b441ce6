package core

// SPIDevice is one chip-selected SPI peripheral, such as the dual-channel
// 12-bit DAC that drives a galvo pair.
//
// Tx performs a single transfer with chip select asserted for its whole
// duration. r may be nil for write-only devices. periph.io's spi.Conn
// satisfies this directly; TinyGo buses need a wrapper that toggles the
// chip select pin around the transfer.
type SPIDevice interface {
	Tx(w, r []byte) error
}

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// DAC bus defaults
const (
	DACSPIMode SPIMode = 0
	DACSPIRate         = 20000000 // 20MHz
)
