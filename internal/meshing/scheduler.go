package meshing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"voxelterrain/internal/queue"
	"voxelterrain/internal/world"
)

// RequestState is the publication state of a Request.
type RequestState uint32

const (
	RequestPending RequestState = iota
	RequestCalculated
	RequestFailed
)

func (s RequestState) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestCalculated:
		return "calculated"
	case RequestFailed:
		return "failed"
	}
	return "unknown"
}

// ErrBuildPanic wraps a panic recovered while building a mesh.
var ErrBuildPanic = errors.New("mesh build panicked")

// Request is a single-use mesh job. Payload and Err are written by the mesh
// worker before the state is published and must not be read earlier.
type Request struct {
	ID        uuid.UUID
	Coord     world.ChunkCoord
	Target    *world.Chunk
	Neighbors [world.NumCardinals]*world.Chunk

	state   atomic.Uint32
	payload *Payload
	err     error
}

// State returns the request state with acquire semantics.
func (r *Request) State() RequestState {
	return RequestState(r.state.Load())
}

// Calculated reports whether the payload is ready.
func (r *Request) Calculated() bool {
	return r.State() == RequestCalculated
}

func (r *Request) Failed() bool {
	return r.State() == RequestFailed
}

// Payload returns the built mesh, or nil until Calculated.
func (r *Request) Payload() *Payload {
	if !r.Calculated() {
		return nil
	}
	return r.payload
}

// Err returns the failure cause once Failed.
func (r *Request) Err() error {
	if !r.Failed() {
		return nil
	}
	return r.err
}

// Scheduler runs mesh builds on one background worker.
type Scheduler struct {
	builder *Builder
	queue   *queue.FIFO[*Request]
	log     *slog.Logger

	built  atomic.Uint64
	failed atomic.Uint64
}

func NewScheduler(builder *Builder, q *queue.FIFO[*Request], log *slog.Logger) *Scheduler {
	return &Scheduler{builder: builder, queue: q, log: log}
}

// Submit captures target and its neighbours into a new request and queues
// it. It never blocks.
func (s *Scheduler) Submit(target *world.Chunk, neighbors [world.NumCardinals]*world.Chunk) *Request {
	req := &Request{
		ID:        uuid.New(),
		Coord:     target.Coord,
		Target:    target,
		Neighbors: neighbors,
	}
	s.queue.Push(req)
	return req
}

// Pending returns the number of queued requests.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Built returns the number of requests completed so far.
func (s *Scheduler) Built() uint64 { return s.built.Load() }

func (s *Scheduler) Failed() uint64 { return s.failed.Load() }

// Run is the worker loop. It returns nil once ctx is cancelled; a build that
// is already running is finished and published first.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		req, ok := s.queue.TryPop()
		if !ok {
			select {
			case <-s.queue.Ready():
			case <-ctx.Done():
				return nil
			}
			continue
		}
		s.process(req)
	}
}

// Drain builds every queued request on the calling goroutine.
func (s *Scheduler) Drain() int {
	n := 0
	for {
		req, ok := s.queue.TryPop()
		if !ok {
			return n
		}
		s.process(req)
		n++
	}
}

func (s *Scheduler) process(req *Request) {
	payload, err := s.build(req)
	if err != nil {
		req.err = err
		req.state.Store(uint32(RequestFailed))
		s.failed.Add(1)
		s.log.Error("mesh build failed", "chunk", req.Coord, "request", req.ID, "err", err)
		return
	}
	req.payload = payload
	req.state.Store(uint32(RequestCalculated))
	s.built.Add(1)
	s.log.Debug("mesh built", "chunk", req.Coord, "request", req.ID, "faces", payload.Faces())
}

func (s *Scheduler) build(req *Request) (p *Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBuildPanic, r)
		}
	}()
	return s.builder.Build(req.Target, req.Neighbors), nil
}
