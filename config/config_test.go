package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"galvo/geometry"
	"galvo/laser"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.TickPeriod() != 150*time.Microsecond {
		t.Errorf("Expected tick period 150µs, got %v", cfg.TickPeriod())
	}
	if cfg.StaleTimeout() != 100*time.Millisecond {
		t.Errorf("Expected stale timeout 100ms, got %v", cfg.StaleTimeout())
	}
	if cfg.ToggleDelay() != 500*time.Microsecond {
		t.Errorf("Expected toggle delay 500µs, got %v", cfg.ToggleDelay())
	}
	if cfg.DACDelay() != 0 {
		t.Errorf("Expected no DAC delay, got %v", cfg.DACDelay())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"mode": "frame",
		"heads": [
			{"spi_device": "/dev/spidev0.0", "red_pin": "GPIO5"},
			{"spi_device": "/dev/spidev0.1"}
		],
		"queue_length": 512,
		"dac_delay_us": 100
	}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Mode != ModeFrame {
		t.Errorf("Expected mode %q, got %q", ModeFrame, cfg.Mode)
	}
	if len(cfg.Heads) != 2 {
		t.Fatalf("Expected 2 heads, got %d", len(cfg.Heads))
	}
	if cfg.Heads[0].RedPin != "GPIO5" {
		t.Errorf("Expected red pin GPIO5, got %q", cfg.Heads[0].RedPin)
	}
	if cfg.QueueLength != 512 {
		t.Errorf("Expected queue length 512, got %d", cfg.QueueLength)
	}
	if cfg.RefillThreshold != 256 {
		t.Errorf("Expected refill threshold to default to half the queue, got %d", cfg.RefillThreshold)
	}
	if cfg.DACDelay() != 100*time.Microsecond {
		t.Errorf("Expected DAC delay 100µs, got %v", cfg.DACDelay())
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"mode", `{"mode": "raster"}`},
		{"too many heads", `{"heads": [{"spi_device":"a"},{"spi_device":"b"},{"spi_device":"c"},{"spi_device":"d"},{"spi_device":"e"}]}`},
		{"stale shorter than tick", `{"tick_period_us": 500, "stale_timeout_us": 400}`},
		{"threshold above queue", `{"queue_length": 16, "refill_threshold": 32}`},
		{"quality", `{"base_quality": 0.5}`},
		{"negative delay", `{"dac_delay_us": -1}`},
		{"head without bus", `{"heads": [{"red_pin": "GPIO2"}]}`},
		{"short warp", `{"heads": [{"spi_device": "a", "warp": [1, 2, 3]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.json))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfigBridgeHeads(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"bridge_device": "/dev/ttyACM0", "heads": [{}, {}]}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Heads) != 2 {
		t.Errorf("Expected 2 heads, got %d", len(cfg.Heads))
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	if _, err := LoadConfig([]byte(`{"mode":`)); err == nil {
		t.Error("Expected error for truncated JSON")
	}
}

func TestConfigure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultQuality = 8
	cfg.ToggleDelayUS = 250
	reg := laser.NewRegistry()

	if err := cfg.Configure(reg); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	ch, _ := reg.Channel(0)
	if ch.Quality() != 8 {
		t.Errorf("Expected quality 8, got %v", ch.Quality())
	}
	if ch.ToggleDelay() != 250*time.Microsecond {
		t.Errorf("Expected toggle delay 250µs, got %v", ch.ToggleDelay())
	}
	if ch.Calibration().WarpEnabled {
		t.Error("Expected warp to stay off without warp corners")
	}

	other, _ := reg.Channel(1)
	if other.Quality() != laser.DefaultQuality {
		t.Errorf("Expected unconfigured head to keep quality %d, got %v", laser.DefaultQuality, other.Quality())
	}
}

func TestConfigureWarp(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"heads": [{"spi_device": "a", "warp": [1200, 1000, 2800, 1000, 3000, 3000, 1000, 3000]}]}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	reg := laser.NewRegistry()
	if err := cfg.Configure(reg); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	ch, _ := reg.Channel(0)
	cal := ch.Calibration()
	if !cal.WarpEnabled {
		t.Fatal("Expected warp to be enabled")
	}
	want := geometry.QuadFromInts([8]int{1200, 1000, 2800, 1000, 3000, 3000, 1000, 3000})
	if diff := cmp.Diff(want, ch.WarpDestination()); diff != "" {
		t.Errorf("warp destination mismatch (-want +got):\n%s", diff)
	}
	if got := cal.Warp(geometry.Pt(1000, 1000)); !geometry.Near(got, geometry.Pt(1200, 1000), 1e-6) {
		t.Errorf("Expected top-left corner to warp to (1200,1000), got %v", got)
	}
}

func TestConfigureDegenerateWarp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Heads[0].Warp = []int{2000, 1000, 2000, 1000, 3000, 3000, 1000, 3000}

	err := cfg.Configure(laser.NewRegistry())
	if !errors.Is(err, geometry.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry, got %v", err)
	}
}
