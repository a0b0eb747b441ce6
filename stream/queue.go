package stream

import (
	"context"

	"galvo/laser"
)

// Queue is a bounded FIFO of ready-to-draw points between the producer
// and the consumer
type Queue struct {
	ch chan laser.Move
}

// NewQueue creates a queue holding up to size points
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan laser.Move, size)}
}

// Push appends m, blocking while the queue is full
func (q *Queue) Push(ctx context.Context, m laser.Move) error {
	select {
	case q.ch <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPop removes the oldest point without blocking
func (q *Queue) TryPop() (laser.Move, bool) {
	select {
	case m := <-q.ch:
		return m, true
	default:
		return laser.Move{}, false
	}
}

// Level returns the number of queued points
func (q *Queue) Level() int {
	return len(q.ch)
}

// Cap returns the queue capacity
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// queueSink pushes transform output into the queue under the context of
// the current producer step
type queueSink struct {
	ctx context.Context
	q   *Queue
}

func (s *queueSink) Emit(m laser.Move) error {
	return s.q.Push(s.ctx, m)
}
