// Package generation runs terrain fills on a dedicated background worker.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"voxelterrain/internal/queue"
	"voxelterrain/internal/terrain"
	"voxelterrain/internal/world"
)

// ErrPanic wraps a panic recovered from a generator.
var ErrPanic = errors.New("generator panicked")

// Scheduler feeds queued chunks to a Generator one at a time.
type Scheduler struct {
	gen   terrain.Generator
	queue *queue.FIFO[*world.Chunk]
	log   *slog.Logger

	generated atomic.Uint64
	failed    atomic.Uint64
}

// NewScheduler creates a scheduler consuming q.
func NewScheduler(gen terrain.Generator, q *queue.FIFO[*world.Chunk], log *slog.Logger) *Scheduler {
	return &Scheduler{gen: gen, queue: q, log: log}
}

// Enqueue schedules c for generation. It never blocks.
func (s *Scheduler) Enqueue(c *world.Chunk) {
	s.queue.Push(c)
}

// Pending returns the number of chunks waiting for the worker.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Generated returns the number of chunks published so far.
func (s *Scheduler) Generated() uint64 { return s.generated.Load() }

// Failed returns the number of chunks marked failed so far.
func (s *Scheduler) Failed() uint64 { return s.failed.Load() }

// Run is the worker loop. It returns nil once ctx is cancelled; a fill that
// is already running is finished first. Chunks still queued are abandoned.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		c, ok := s.queue.TryPop()
		if !ok {
			select {
			case <-s.queue.Ready():
			case <-ctx.Done():
				return nil
			}
			continue
		}
		s.generate(ctx, c)
	}
}

// Drain generates every queued chunk on the calling goroutine and returns how
// many were processed.
func (s *Scheduler) Drain(ctx context.Context) int {
	n := 0
	for {
		c, ok := s.queue.TryPop()
		if !ok {
			return n
		}
		s.generate(ctx, c)
		n++
	}
}

func (s *Scheduler) generate(ctx context.Context, c *world.Chunk) {
	s.log.Debug("chunk generation started", "chunk", c.Coord)
	if err := s.fill(ctx, c); err != nil {
		c.MarkFailed()
		s.failed.Add(1)
		s.log.Error("chunk generation failed", "chunk", c.Coord, "err", err)
		return
	}
	c.MarkCalculated()
	s.generated.Add(1)
	s.log.Debug("chunk generation finished", "chunk", c.Coord, "pending", s.queue.Len())
}

func (s *Scheduler) fill(ctx context.Context, c *world.Chunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.gen.Fill(ctx, c)
}
