//go:build rp2040 || rp2350

package main

import (
	"context"
	"runtime"
	"time"

	"galvo/core"
	"galvo/laser"
	"galvo/stream"
)

// Firmware queue sizing. A move is a few dozen bytes, so the queue is
// kept well inside SRAM.
const (
	queueLength     = 1024
	refillThreshold = 512
)

func main() {
	core.SetDebugWriter(func(s string) { println(s) })
	core.InitAsyncDebug()

	dac, err := configureDAC()
	if err != nil {
		halt("dac: " + err.Error())
	}
	diodes, err := configureIntensity()
	if err != nil {
		halt("pwm: " + err.Error())
	}

	reg := laser.NewRegistry()
	ch, _ := reg.Channel(0)
	out := laser.NewOutput(ch, dac, diodes)
	if err := out.Off(); err != nil {
		halt("intensity: " + err.Error())
	}

	// The network point source is not wired on this board yet; draw the
	// bring-up circle.
	q := stream.NewQueue(queueLength)
	producer := stream.NewProducer(stream.NewCircleSource(), ch, q, refillThreshold)
	go func() {
		if err := producer.Run(context.Background()); err != nil {
			core.DebugAsync("producer: " + err.Error())
		}
	}()

	consumer := stream.NewConsumer(q, out, stream.DefaultTickPeriod, stream.DefaultStaleAfter)
	UpdateSystemTime()
	consumer.Schedule(core.GetTime())

	for {
		UpdateSystemTime()
		core.ProcessTimers()
		runtime.Gosched()
	}
}

// halt reports a fatal setup error forever
func halt(msg string) {
	for {
		println(msg)
		time.Sleep(time.Second)
	}
}
