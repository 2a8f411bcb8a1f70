// Package engine supervises the background workers and drives the per-tick
// units from a reference position.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Unit is advanced once per tick on the engine goroutine.
type Unit interface {
	Tick(position mgl32.Vec3)
}

// Runner is a long-lived worker. Run must return nil once ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// PositionSource supplies the reference position for each tick.
type PositionSource interface {
	Position() mgl32.Vec3
}

// Fixed is a PositionSource that never moves.
type Fixed mgl32.Vec3

func (f Fixed) Position() mgl32.Vec3 { return mgl32.Vec3(f) }

var ErrNoSource = errors.New("engine: no position source")

type Options struct {
	// TickRate is ticks per second; zero runs the loop unpaced.
	TickRate int
	// Until is checked after every tick; returning true stops the engine.
	Until func(tick uint64) bool
}

type Engine struct {
	source  PositionSource
	opts    Options
	log     *slog.Logger
	runners []Runner
	units   []Unit

	ticks atomic.Uint64
}

func New(source PositionSource, opts Options, log *slog.Logger) *Engine {
	return &Engine{source: source, opts: opts, log: log}
}

// AddRunner registers a worker started by Run. Not safe once Run has begun.
func (e *Engine) AddRunner(r Runner) {
	e.runners = append(e.runners, r)
}

// AddUnit registers a unit ticked in registration order.
func (e *Engine) AddUnit(u Unit) {
	e.units = append(e.units, u)
}

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 {
	return e.ticks.Load()
}

// Step runs a single tick on the calling goroutine.
func (e *Engine) Step() {
	pos := e.source.Position()
	for _, u := range e.units {
		u.Tick(pos)
	}
	e.ticks.Add(1)
}

// Run starts every runner and the tick loop, and blocks until ctx is
// cancelled, Until reports done, or a runner fails. The first runner error
// is returned; a normal stop returns nil.
func (e *Engine) Run(ctx context.Context) error {
	if e.source == nil {
		return ErrNoSource
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	for _, r := range e.runners {
		g.Go(func() error { return r.Run(ctx) })
	}
	g.Go(func() error {
		defer cancel()
		return e.loop(ctx)
	})

	err := g.Wait()
	e.log.Info("engine stopped", "ticks", e.Ticks(), "err", err)
	return err
}

// RunWorkers runs only the registered runners, for callers that must tick
// the units on their own goroutine with Step.
func (e *Engine) RunWorkers(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range e.runners {
		g.Go(func() error { return r.Run(ctx) })
	}
	return g.Wait()
}

func (e *Engine) loop(ctx context.Context) error {
	limiter := NewLimiter(e.opts.TickRate)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
		e.Step()
		if e.opts.Until != nil && e.opts.Until(e.Ticks()) {
			return nil
		}
	}
}
