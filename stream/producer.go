package stream

import (
	"context"
	"time"

	"galvo/laser"
)

// DefaultBackoff is how long the producer waits when the queue is above
// its refill threshold or the source is idle
const DefaultBackoff = 200 * time.Microsecond

// Producer pulls points from a source, runs them through the channel
// transform and fills the queue.
type Producer struct {
	src       PointSource
	tr        *laser.Transform
	sink      *queueSink
	q         *Queue
	threshold int
	backoff   time.Duration
}

// NewProducer creates a producer for ch, driven from a single goroutine.
// Points are only produced while the queue level is below threshold; a
// threshold of zero or above the queue capacity means the capacity.
func NewProducer(src PointSource, ch *laser.Channel, q *Queue, threshold int) *Producer {
	if threshold <= 0 || threshold > q.Cap() {
		threshold = q.Cap()
	}
	sink := &queueSink{q: q}
	return &Producer{
		src:       src,
		tr:        laser.NewTransform(ch, sink),
		sink:      sink,
		q:         q,
		threshold: threshold,
		backoff:   DefaultBackoff,
	}
}

// SetBackoff sets the wait used when there is nothing to do
func (p *Producer) SetBackoff(d time.Duration) {
	p.backoff = d
}

// Step produces at most one source point. It reports false when the
// queue was at its threshold or the source was idle. Step blocks while a
// long move's points do not fit in the queue.
func (p *Producer) Step(ctx context.Context) (bool, error) {
	if p.q.Level() >= p.threshold {
		return false, nil
	}

	sp := p.src.NextPoint()
	if sp.Idle() {
		return false, nil
	}

	p.sink.ctx = ctx
	if err := p.tr.SendTo(float64(sp.X), float64(sp.Y), sp.Color(), sp.Lit()); err != nil {
		return false, err
	}
	return true, nil
}

// Run produces until ctx is cancelled
func (p *Producer) Run(ctx context.Context) error {
	for {
		produced, err := p.Step(ctx)
		if err != nil {
			return err
		}
		if produced {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff):
		}
	}
}
