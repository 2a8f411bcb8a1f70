// Package session assembles the streaming runtime from a configuration.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/config"
	"voxelterrain/internal/edit"
	"voxelterrain/internal/engine"
	"voxelterrain/internal/generation"
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/physics"
	"voxelterrain/internal/queue"
	"voxelterrain/internal/registry"
	"voxelterrain/internal/streaming"
	"voxelterrain/internal/terrain"
	"voxelterrain/internal/world"
)

// Session owns one world: its store, both worker schedulers, the streaming
// controller and the edit controller.
type Session struct {
	Config     config.Config
	Store      *world.ChunkStore
	Blocks     *registry.Registry
	Generator  terrain.Generator
	Generation *generation.Scheduler
	Meshing    *meshing.Scheduler
	Streaming  *streaming.Controller
	Edit       *edit.Controller

	log *slog.Logger
}

// New validates cfg and wires a session that pushes finished meshes to sink.
func New(cfg config.Config, sink streaming.Sink, log *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	blocks, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("block registry: %w", err)
	}
	gen, err := terrain.New(cfg.Terrain(), log)
	if err != nil {
		return nil, fmt.Errorf("terrain generator: %w", err)
	}

	store := world.NewChunkStore(cfg.Chunk)
	genSched := generation.NewScheduler(gen, queue.New[*world.Chunk](), log)

	builder := &meshing.Builder{
		Atlas:            meshing.NewGridAtlas(cfg.Atlas.Columns, cfg.Atlas.Rows, blocks),
		VoxelSize:        cfg.VoxelSize,
		VerticalBoundary: cfg.Boundary(),
	}
	meshSched := meshing.NewScheduler(builder, queue.New[*meshing.Request](), log)

	stream := streaming.NewController(store, genSched, meshSched, sink, streaming.Options{
		Radius:      cfg.Radius,
		VoxelSize:   cfg.VoxelSize,
		OneShot:     cfg.OneShot,
		EvictRadius: cfg.EvictRadius,
	}, log)

	return &Session{
		Config:     cfg,
		Store:      store,
		Blocks:     blocks,
		Generator:  gen,
		Generation: genSched,
		Meshing:    meshSched,
		Streaming:  stream,
		Edit:       edit.NewController(store, stream, cfg.VoxelSize, log),
		log:        log,
	}, nil
}

// Engine returns an engine that runs both workers and ticks the streaming
// controller from source.
func (s *Session) Engine(source engine.PositionSource, opts engine.Options) *engine.Engine {
	e := engine.New(source, opts, s.log)
	e.AddRunner(s.Generation)
	e.AddRunner(s.Meshing)
	e.AddUnit(s.Streaming)
	return e
}

// Settle runs both workers on the calling goroutine until nothing is queued
// and every active visual has left the pending states, or maxTicks ticks
// have been spent.
func (s *Session) Settle(ctx context.Context, position mgl32.Vec3, maxTicks int) int {
	for i := range maxTicks {
		s.Streaming.Tick(position)
		s.Generation.Drain(ctx)
		s.Meshing.Drain()
		st := s.Streaming.Stats()
		if st.PendingGeneration == 0 && st.PendingMesh == 0 && st.Unbuilt == 0 {
			return i + 1
		}
	}
	return maxTicks
}

// Raycast casts a ray through calculated chunks in world units.
func (s *Session) Raycast(start, direction mgl32.Vec3, maxDist float32) physics.RaycastResult {
	return physics.Raycast(start, direction, 0, maxDist, s.Config.VoxelSize, physics.StoreQuery{Store: s.Store})
}

// Destroy removes the voxel a raycast hit and returns the chunks that were
// queued for a rebuild.
func (s *Session) Destroy(hit physics.RaycastResult) ([]world.ChunkCoord, error) {
	if !hit.Hit {
		return nil, nil
	}
	return s.Edit.DestroyAt(hit.Point, hit.Normal)
}

// Close releases the generator's worker pool, if it has one.
func (s *Session) Close() error {
	if c, ok := s.Generator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
