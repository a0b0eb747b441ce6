// Command laser-host drives galvo heads from a Linux host, either through
// local SPI/GPIO (periph.io) or through a USB serial bridge board.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"galvo/config"
	"galvo/core"
	"galvo/laser"
)

var (
	configPath = flag.String("config", "", "Projector config file (JSON); built-in defaults when empty")
	bridge     = flag.Bool("bridge", false, "Use the serial bridge from the config instead of local buses")
	device     = flag.String("device", "", "Override the bridge serial device")
	mode       = flag.String("mode", "", "Override the output mode (stream or frame)")
	duration   = flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output and dump the timing ring on exit")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	core.SetDebugWriter(func(s string) { log.Print(s) })
	core.SetDebugEnabled(*verbose)
	core.InitAsyncDebug()

	reg := laser.NewRegistry()
	if err := cfg.Configure(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	h, err := openHeads(cfg, reg, *bridge)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	log.Printf("driving %d head(s) in %s mode", len(h.Outputs), cfg.Mode)
	start := time.Now()
	runErr := run(ctx, cfg, reg, h.Outputs)
	if err := h.Close(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	log.Printf("stopped after %s", time.Since(start).Round(time.Millisecond))

	if *verbose {
		core.DumpTimingRing()
	}
}

func loadConfig() (*config.ProjectorConfig, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if cfg, err = config.LoadConfig(data); err != nil {
			return nil, err
		}
	}
	if *device != "" {
		cfg.BridgeDevice = *device
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	return cfg, cfg.Validate()
}
