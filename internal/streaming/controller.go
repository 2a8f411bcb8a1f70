// Package streaming keeps a square window of chunk visuals around a moving
// reference point and drives each through generation and meshing.
package streaming

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/meshing"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/world"
)

// Sink receives finished meshes. Apply replaces whatever was shown for coord;
// Release may be called for coordinates that were never applied.
type Sink interface {
	Apply(coord world.ChunkCoord, origin mgl32.Vec3, payload *meshing.Payload)
	Release(coord world.ChunkCoord)
}

// ChunkQueue accepts chunks for generation.
type ChunkQueue interface {
	Enqueue(c *world.Chunk)
}

// MeshQueue accepts mesh jobs.
type MeshQueue interface {
	Submit(target *world.Chunk, neighbors [world.NumCardinals]*world.Chunk) *meshing.Request
}

type Options struct {
	Radius    int
	VoxelSize float32
	// OneShot computes the window on the first tick only.
	OneShot bool
	// EvictRadius drops stored chunks farther than this from the centre.
	// Zero keeps every chunk.
	EvictRadius int
}

// Stats is a snapshot of the controller for logging.
type Stats struct {
	Active            int
	Unbuilt           int
	PendingGeneration int
	PendingMesh       int
	Applied           int
	StoredChunks      int
	Center            world.ChunkCoord
}

// Controller is driven from a single tick goroutine and is not safe for
// concurrent use.
type Controller struct {
	store  *world.ChunkStore
	chunks ChunkQueue
	meshes MeshQueue
	sink   Sink
	opts   Options
	log    *slog.Logger

	visuals map[world.ChunkCoord]*Visual
	active  []world.ChunkCoord
	center  world.ChunkCoord
	ticked  bool
}

func NewController(store *world.ChunkStore, chunks ChunkQueue, meshes MeshQueue, sink Sink, opts Options, log *slog.Logger) *Controller {
	if opts.VoxelSize == 0 {
		opts.VoxelSize = 1
	}
	return &Controller{
		store:   store,
		chunks:  chunks,
		meshes:  meshes,
		sink:    sink,
		opts:    opts,
		log:     log,
		visuals: make(map[world.ChunkCoord]*Visual),
	}
}

// Origin returns the world position of a chunk's mesh origin.
func Origin(coord world.ChunkCoord, dim world.Dimensions, voxelSize float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(coord.X*dim.Width) * voxelSize,
		-float32(dim.Height) / 2 * voxelSize,
		float32(coord.Z*dim.Depth) * voxelSize,
	}
}

// Tick updates the window around position and advances every active visual.
func (c *Controller) Tick(position mgl32.Vec3) {
	defer profiling.Track("streaming.Tick")()

	if !c.opts.OneShot || !c.ticked {
		c.updateWindow(position)
	}
	c.ticked = true

	for _, coord := range c.active {
		c.advance(c.visuals[coord])
	}
}

// Center returns the chunk the window was last centred on.
func (c *Controller) Center() world.ChunkCoord {
	return c.center
}

func (c *Controller) updateWindow(position mgl32.Vec3) {
	dim := c.store.Dimensions()
	center := world.ChunkCoordAt(float64(position.X()), float64(position.Z()), dim, float64(c.opts.VoxelSize))
	r := c.opts.Radius

	desired := make(map[world.ChunkCoord]struct{}, 4*r*r)
	for x := center.X - r; x < center.X+r; x++ {
		for z := center.Z - r; z < center.Z+r; z++ {
			coord := world.ChunkCoord{X: x, Z: z}
			desired[coord] = struct{}{}
			if _, ok := c.visuals[coord]; ok {
				continue
			}
			c.ensureChunk(coord)
			for _, n := range coord.Neighbors() {
				c.ensureChunk(n)
			}
			c.visuals[coord] = newVisual(coord)
			c.active = append(c.active, coord)
		}
	}

	kept := c.active[:0]
	for _, coord := range c.active {
		if _, ok := desired[coord]; ok {
			kept = append(kept, coord)
			continue
		}
		c.release(coord)
	}
	c.active = kept

	if center != c.center {
		c.log.Debug("window moved", "chunk", center, "active", len(c.active))
	}
	c.center = center

	if c.opts.EvictRadius > 0 {
		if n := c.store.EvictFarChunks(center, c.opts.EvictRadius); n > 0 {
			c.log.Debug("evicted chunks", "count", n)
		}
	}
}

// ensureChunk creates the chunk at coord and queues it for generation if it
// does not exist yet.
func (c *Controller) ensureChunk(coord world.ChunkCoord) *world.Chunk {
	ch, created := c.store.GetOrCreate(coord)
	if created {
		c.chunks.Enqueue(ch)
	}
	return ch
}

func (c *Controller) release(coord world.ChunkCoord) {
	delete(c.visuals, coord)
	c.sink.Release(coord)
}

// advance moves v at most one step forward, except that a fresh visual
// checks its data immediately.
func (c *Controller) advance(v *Visual) {
	switch v.State {
	case Unbuilt:
		v.State = PendingGeneration
		fallthrough
	case PendingGeneration:
		target, neighbors, ok := c.ready(v)
		if !ok {
			return
		}
		v.request = c.meshes.Submit(target, neighbors)
		v.State = PendingMesh
		v.failLogged = false
	case PendingMesh:
		req := v.request
		switch {
		case req == nil:
			v.State = Unbuilt
		case req.Calculated():
			v.payload = req.Payload()
			v.request = nil
			v.State = Applied
			c.sink.Apply(v.Coord, Origin(v.Coord, c.store.Dimensions(), c.opts.VoxelSize), v.payload)
		case req.Failed():
			c.log.Warn("mesh request failed, retrying", "chunk", v.Coord, "request", req.ID, "err", req.Err())
			v.request = nil
			v.State = Unbuilt
		}
	}
}

// ready returns the target and neighbour chunks once all are calculated.
func (c *Controller) ready(v *Visual) (*world.Chunk, [world.NumCardinals]*world.Chunk, bool) {
	var neighbors [world.NumCardinals]*world.Chunk
	target := c.ensureChunk(v.Coord)
	ok := c.usable(v, target)
	for i, coord := range v.Neighbors {
		neighbors[i] = c.ensureChunk(coord)
		ok = c.usable(v, neighbors[i]) && ok
	}
	return target, neighbors, ok
}

func (c *Controller) usable(v *Visual, ch *world.Chunk) bool {
	switch ch.State() {
	case world.ChunkCalculated:
		return true
	case world.ChunkFailed:
		if !v.failLogged {
			c.log.Warn("chunk data failed, visual stalled", "chunk", v.Coord, "source", ch.Coord)
			v.failLogged = true
		}
	}
	return false
}

// Remesh schedules a rebuild of coord's mesh on the next tick.
// It reports false when coord has no visual.
func (c *Controller) Remesh(coord world.ChunkCoord) bool {
	v, ok := c.visuals[coord]
	if !ok {
		return false
	}
	if v.State == Applied || v.State == PendingMesh {
		v.State = Unbuilt
		v.request = nil
	}
	return true
}

// Visual returns the visual for coord.
func (c *Controller) Visual(coord world.ChunkCoord) (*Visual, bool) {
	v, ok := c.visuals[coord]
	return v, ok
}

// ActiveCoords returns the active window in insertion order.
func (c *Controller) ActiveCoords() []world.ChunkCoord {
	return append([]world.ChunkCoord(nil), c.active...)
}

func (c *Controller) Stats() Stats {
	s := Stats{Active: len(c.active), StoredChunks: c.store.Len(), Center: c.center}
	for _, v := range c.visuals {
		switch v.State {
		case Unbuilt:
			s.Unbuilt++
		case PendingGeneration:
			s.PendingGeneration++
		case PendingMesh:
			s.PendingMesh++
		case Applied:
			s.Applied++
		}
	}
	return s
}
