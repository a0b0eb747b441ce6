package stream

import (
	"context"
	"time"

	"galvo/core"
	"galvo/laser"
)

// Output timing defaults
const (
	DefaultTickPeriod = 150 * time.Microsecond
	DefaultStaleAfter = 100 * time.Millisecond
)

// Consumer drains the queue into one output at a fixed tick. When no
// point arrives for longer than the staleness window the laser is
// switched off and the beam is left where it is.
type Consumer struct {
	q      *Queue
	out    *laser.Output
	period uint32 // ticks
	stale  uint32 // ticks

	lastUpdate uint32
	misses     uint32

	timer core.Timer
}

// NewConsumer creates a consumer ticking every period
func NewConsumer(q *Queue, out *laser.Output, period, staleAfter time.Duration) *Consumer {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Consumer{
		q:      q,
		out:    out,
		period: core.TimerFromUS(uint32(period.Microseconds())),
		stale:  core.TimerFromUS(uint32(staleAfter.Microseconds())),
	}
}

// Tick runs one output step at time now, in timer ticks
func (c *Consumer) Tick(now uint32) error {
	m, ok := c.q.TryPop()
	if ok {
		c.lastUpdate = now
		c.misses = 0
		return c.out.Emit(m)
	}

	c.misses++
	if c.misses == 1 {
		core.RecordTiming(core.EvtQueueUnderrun, uint8(c.out.Channel().Index()), now, c.misses, uint32(c.q.Level()))
	}

	idle := core.TicksSince(now, c.lastUpdate)
	if idle > c.stale && c.out.IsOn() {
		core.RecordTiming(core.EvtStaleOff, uint8(c.out.Channel().Index()), now, idle, 0)
		return c.out.Off()
	}
	return nil
}

// Run ticks on a wall-clock ticker until ctx is cancelled or the output
// fails
func (c *Consumer) Run(ctx context.Context) error {
	start := time.Now()
	c.lastUpdate = 0

	ticker := time.NewTicker(time.Duration(core.TimerToUS(c.period)) * time.Microsecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			now := core.TimerFromUS(uint32(t.Sub(start).Microseconds()))
			if err := c.Tick(now); err != nil {
				return err
			}
		}
	}
}

// Schedule arms a self-rescheduling timer on the core timer list, first
// firing one period after start. Output errors are reported through the
// debug channel and the tick continues.
func (c *Consumer) Schedule(start uint32) {
	c.lastUpdate = start
	c.timer.WakeTime = start + c.period
	c.timer.Handler = c.onTimer
	core.ScheduleTimer(&c.timer)
}

// Stop removes the scheduled timer
func (c *Consumer) Stop() {
	core.CancelTimer(&c.timer)
}

func (c *Consumer) onTimer(t *core.Timer) uint8 {
	if err := c.Tick(t.WakeTime); err != nil {
		core.DebugAsync("consumer: " + err.Error())
	}
	t.WakeTime += c.period
	return core.SF_RESCHEDULE
}
