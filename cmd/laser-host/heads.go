package main

import (
	"errors"
	"fmt"
	"io"

	"galvo/config"
	"galvo/core"
	"galvo/host/periph"
	"galvo/host/serial"
	"galvo/laser"
)

// heads is the set of opened outputs and the devices behind them
type heads struct {
	Outputs []*laser.Output
	closers []io.Closer
}

// Close turns every head off and releases the devices
func (h *heads) Close() error {
	var errs []error
	for _, out := range h.Outputs {
		errs = append(errs, out.Off())
	}
	for _, c := range h.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// openHeads opens one output per configured head
func openHeads(cfg *config.ProjectorConfig, reg *laser.Registry, useBridge bool) (*heads, error) {
	if useBridge {
		return openBridgeHeads(cfg, reg)
	}
	return openLocalHeads(cfg, reg)
}

func openBridgeHeads(cfg *config.ProjectorConfig, reg *laser.Registry) (*heads, error) {
	if cfg.BridgeDevice == "" {
		return nil, fmt.Errorf("%w: bridge requested without bridge_device", config.ErrInvalidConfig)
	}
	sc := serial.DefaultConfig(cfg.BridgeDevice)
	sc.Baud = cfg.BridgeBaud
	port, err := serial.Open(sc)
	if err != nil {
		return nil, err
	}
	b := serial.NewBridge(port)

	h := &heads{closers: []io.Closer{b}}
	for i := range cfg.Heads {
		if err := h.add(cfg, reg, i, b.DAC(i), b.Intensity(i)); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}

func openLocalHeads(cfg *config.ProjectorConfig, reg *laser.Registry) (*heads, error) {
	if err := periph.Init(); err != nil {
		return nil, err
	}

	h := &heads{}
	for i, hc := range cfg.Heads {
		bus, dac, err := periph.OpenDAC(hc.SPIDevice, cfg.SPIHz)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("head %d: %w", i, err)
		}
		h.closers = append(h.closers, bus)

		diodes, err := periph.NewPWMIntensity(hc.RedPin, hc.GreenPin, hc.BluePin, cfg.PWMHz)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("head %d: %w", i, err)
		}
		if err := h.add(cfg, reg, i, dac, diodes); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}

func (h *heads) add(cfg *config.ProjectorConfig, reg *laser.Registry, i int, dac core.SPIDevice, diodes core.IntensityDriver) error {
	ch, err := reg.Channel(i)
	if err != nil {
		return err
	}
	out := laser.NewOutput(ch, dac, diodes)
	out.SetDelays(cfg.ToggleDelay(), cfg.DACDelay())
	h.Outputs = append(h.Outputs, out)
	return nil
}
