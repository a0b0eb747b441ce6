package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"galvo/config"
	"galvo/demo"
	"galvo/frame"
	"galvo/laser"
	"galvo/stream"
)

// run drives the outputs until ctx is done. Cancellation is a clean stop.
func run(ctx context.Context, cfg *config.ProjectorConfig, reg *laser.Registry, outputs []*laser.Output) error {
	var err error
	switch cfg.Mode {
	case config.ModeStream:
		err = runStream(ctx, cfg, outputs)
	case config.ModeFrame:
		err = runFrame(ctx, cfg, reg, outputs)
	default:
		return fmt.Errorf("%w: mode %q", config.ErrInvalidConfig, cfg.Mode)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// runStream feeds every head from its own circle source through a
// producer/consumer queue pair
func runStream(ctx context.Context, cfg *config.ProjectorConfig, outputs []*laser.Output) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, out := range outputs {
		q := stream.NewQueue(cfg.QueueLength)
		p := stream.NewProducer(stream.NewCircleSource(), out.Channel(), q, cfg.RefillThreshold)
		c := stream.NewConsumer(q, out, cfg.TickPeriod(), cfg.StaleTimeout())
		g.Go(func() error { return p.Run(ctx) })
		g.Go(func() error { return c.Run(ctx) })
	}
	return g.Wait()
}

// runFrame draws the demo show frame by frame, balanced across heads
func runFrame(ctx context.Context, cfg *config.ProjectorConfig, reg *laser.Registry, outputs []*laser.Output) error {
	m := frame.NewManager(reg, cfg.BaseQuality)
	for _, out := range outputs {
		if err := m.Attach(out.Channel().Index(), out); err != nil {
			return err
		}
	}
	for tick := 0; ; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := demo.Scene(m, len(outputs), tick); err != nil {
			return err
		}
		if err := m.Draw(); err != nil {
			return err
		}
	}
}
