// Package config loads the hardware and timing settings of a projector.
// Calibration values are owned by the calibration store, not by this file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"galvo/geometry"
	"galvo/laser"
)

// Modes
const (
	ModeStream = "stream" // one head fed through the point queue
	ModeFrame  = "frame"  // all heads drawn through the frame manager
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid config")

// HeadConfig describes the wiring of one laser head
type HeadConfig struct {
	SPIDevice string `json:"spi_device"` // DAC bus name, e.g. "SPI0.0" or "/dev/spidev0.0"
	RedPin    string `json:"red_pin"`
	GreenPin  string `json:"green_pin"`
	BluePin   string `json:"blue_pin"`

	// Warp destination corners x0,y0..x3,y3; the warp stays off when empty
	Warp []int `json:"warp,omitempty"`
}

// ProjectorConfig holds everything needed to bring up the output path
type ProjectorConfig struct {
	Mode  string       `json:"mode"`
	Heads []HeadConfig `json:"heads"`

	// Serial bridge, used instead of local buses when set
	BridgeDevice string `json:"bridge_device"`
	BridgeBaud   int    `json:"bridge_baud"`

	SPIHz int `json:"spi_hz"`
	PWMHz int `json:"pwm_hz"`

	TickPeriodUS    int `json:"tick_period_us"`
	StaleTimeoutUS  int `json:"stale_timeout_us"`
	QueueLength     int `json:"queue_length"`
	RefillThreshold int `json:"refill_threshold"`

	BaseQuality    float64 `json:"base_quality"`
	DefaultQuality float64 `json:"default_quality"`
	ToggleDelayUS  int     `json:"toggle_delay_us"`
	DACDelayUS     int     `json:"dac_delay_us"`
	ZDist          float64 `json:"z_dist"`
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*ProjectorConfig, error) {
	var config ProjectorConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *ProjectorConfig) {
	def := DefaultConfig()

	if config.Mode == "" {
		config.Mode = def.Mode
	}
	if len(config.Heads) == 0 {
		config.Heads = def.Heads
	}
	if config.BridgeBaud == 0 {
		config.BridgeBaud = def.BridgeBaud
	}
	if config.SPIHz == 0 {
		config.SPIHz = def.SPIHz
	}
	if config.PWMHz == 0 {
		config.PWMHz = def.PWMHz
	}
	if config.TickPeriodUS == 0 {
		config.TickPeriodUS = def.TickPeriodUS
	}
	if config.StaleTimeoutUS == 0 {
		config.StaleTimeoutUS = def.StaleTimeoutUS
	}
	if config.QueueLength == 0 {
		config.QueueLength = def.QueueLength
	}
	if config.RefillThreshold == 0 {
		config.RefillThreshold = config.QueueLength / 2
	}
	if config.BaseQuality == 0 {
		config.BaseQuality = def.BaseQuality
	}
	if config.DefaultQuality == 0 {
		config.DefaultQuality = def.DefaultQuality
	}
	if config.ToggleDelayUS == 0 {
		config.ToggleDelayUS = def.ToggleDelayUS
	}
	if config.ZDist == 0 {
		config.ZDist = def.ZDist
	}
}

// DefaultConfig returns the configuration of a single head on the first
// SPI bus with diodes on GPIO2..4
func DefaultConfig() *ProjectorConfig {
	return &ProjectorConfig{
		Mode: ModeStream,
		Heads: []HeadConfig{
			{SPIDevice: "SPI0.0", RedPin: "GPIO2", GreenPin: "GPIO3", BluePin: "GPIO4"},
		},
		BridgeBaud:      115200,
		SPIHz:           20000000,
		PWMHz:           20000,
		TickPeriodUS:    150,
		StaleTimeoutUS:  100000,
		QueueLength:     2048,
		RefillThreshold: 1024,
		BaseQuality:     32,
		DefaultQuality:  laser.DefaultQuality,
		ToggleDelayUS:   500,
		DACDelayUS:      0,
		ZDist:           laser.DefaultZDist,
	}
}

// Validate reports the first invalid field
func (c *ProjectorConfig) Validate() error {
	switch {
	case c.Mode != ModeStream && c.Mode != ModeFrame:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	case len(c.Heads) == 0 || len(c.Heads) > laser.NumChannels:
		return fmt.Errorf("%w: %d heads, want 1..%d", ErrInvalidConfig, len(c.Heads), laser.NumChannels)
	case c.TickPeriodUS < 0:
		return fmt.Errorf("%w: tick_period_us %d", ErrInvalidConfig, c.TickPeriodUS)
	case c.StaleTimeoutUS <= c.TickPeriodUS:
		return fmt.Errorf("%w: stale_timeout_us %d must exceed tick_period_us", ErrInvalidConfig, c.StaleTimeoutUS)
	case c.QueueLength < 1:
		return fmt.Errorf("%w: queue_length %d", ErrInvalidConfig, c.QueueLength)
	case c.RefillThreshold < 1 || c.RefillThreshold > c.QueueLength:
		return fmt.Errorf("%w: refill_threshold %d", ErrInvalidConfig, c.RefillThreshold)
	case c.BaseQuality < 1 || c.DefaultQuality < 1:
		return fmt.Errorf("%w: quality below one DAC step", ErrInvalidConfig)
	case c.ToggleDelayUS < 0 || c.DACDelayUS < 0:
		return fmt.Errorf("%w: negative delay", ErrInvalidConfig)
	}
	for i, h := range c.Heads {
		if h.SPIDevice == "" && c.BridgeDevice == "" {
			return fmt.Errorf("%w: head %d has no spi_device", ErrInvalidConfig, i)
		}
		if len(h.Warp) != 0 && len(h.Warp) != 8 {
			return fmt.Errorf("%w: head %d warp has %d values, want 8", ErrInvalidConfig, i, len(h.Warp))
		}
	}
	return nil
}

// TickPeriod returns the consumer tick period
func (c *ProjectorConfig) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodUS) * time.Microsecond
}

// StaleTimeout returns the input staleness window
func (c *ProjectorConfig) StaleTimeout() time.Duration {
	return time.Duration(c.StaleTimeoutUS) * time.Microsecond
}

// ToggleDelay returns the laser toggle settle time
func (c *ProjectorConfig) ToggleDelay() time.Duration {
	return time.Duration(c.ToggleDelayUS) * time.Microsecond
}

// DACDelay returns the settle time after each point write
func (c *ProjectorConfig) DACDelay() time.Duration {
	return time.Duration(c.DACDelayUS) * time.Microsecond
}

// Configure applies the per-head timing defaults and warp corners to the
// configured channels of reg
func (c *ProjectorConfig) Configure(reg *laser.Registry) error {
	for i, h := range c.Heads {
		ch, err := reg.Channel(i)
		if err != nil {
			return err
		}
		ch.SetQuality(c.DefaultQuality)
		ch.SetToggleDelay(c.ToggleDelay())
		ch.SetZDist(c.ZDist)

		if len(h.Warp) == 8 {
			if err := ch.SetWarpDestination(geometry.QuadFromInts([8]int(h.Warp))); err != nil {
				return fmt.Errorf("head %d warp: %w", i, err)
			}
			ch.SetWarpEnabled(true)
		}
	}
	return nil
}
