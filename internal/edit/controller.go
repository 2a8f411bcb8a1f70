// Package edit applies voxel edits resolved from raycast hits and schedules
// the affected meshes for rebuild.
package edit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/world"
)

var (
	ErrNoChunk     = errors.New("no chunk at edit position")
	ErrOutOfBounds = errors.New("edit position outside chunk bounds")
	ErrNotReady    = errors.New("chunk not calculated")
)

// Remesher rebuilds a chunk's mesh. It reports false when coord has no visual.
type Remesher interface {
	Remesh(coord world.ChunkCoord) bool
}

// Target is a voxel addressed by chunk and local coordinates.
type Target struct {
	Coord   world.ChunkCoord
	X, Y, Z int
}

func (t Target) String() string {
	return fmt.Sprintf("%v[%d,%d,%d]", t.Coord, t.X, t.Y, t.Z)
}

// Controller must be used from the goroutine that ticks the streaming controller.
type Controller struct {
	store     *world.ChunkStore
	remesher  Remesher
	voxelSize float32
	log       *slog.Logger
}

func NewController(store *world.ChunkStore, remesher Remesher, voxelSize float32, log *slog.Logger) *Controller {
	if voxelSize == 0 {
		voxelSize = 1
	}
	return &Controller{store: store, remesher: remesher, voxelSize: voxelSize, log: log}
}

// Resolve maps a world-space hit on a voxel face to the voxel behind it.
// The hit is pushed half a voxel against the face normal first.
func (c *Controller) Resolve(hit, normal mgl32.Vec3) (Target, error) {
	dim := c.store.Dimensions()
	s := c.voxelSize
	p := hit.Sub(normal.Mul(s / 2))

	coord := world.ChunkCoordAt(float64(p.X()), float64(p.Z()), dim, float64(s))
	t := Target{Coord: coord}

	fx := (p.X()-float32(coord.X*dim.Width)*s)/s + float32(dim.Width)/2
	fy := p.Y()/s + float32(dim.Height)/2
	fz := (p.Z()-float32(coord.Z*dim.Depth)*s)/s + float32(dim.Depth)/2
	if fx < 0 || fy < 0 || fz < 0 {
		return t, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	t.X, t.Y, t.Z = int(fx), int(fy), int(fz)

	if c.store.Get(coord) == nil {
		return t, fmt.Errorf("%w: %v", ErrNoChunk, coord)
	}
	if t.X >= dim.Width || t.Y >= dim.Height || t.Z >= dim.Depth {
		return t, fmt.Errorf("%w: %v", ErrOutOfBounds, t)
	}
	return t, nil
}

// DestroyVoxel clears a voxel and remeshes its chunk plus any neighbour
// sharing the voxel's border. It returns the coordinates actually remeshed.
func (c *Controller) DestroyVoxel(coord world.ChunkCoord, x, y, z int) ([]world.ChunkCoord, error) {
	ch := c.store.Get(coord)
	if ch == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChunk, coord)
	}
	if !ch.Calculated() {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, coord)
	}
	if !ch.InBounds(x, y, z) {
		return nil, fmt.Errorf("%w: %v[%d,%d,%d]", ErrOutOfBounds, coord, x, y, z)
	}

	ch.SetBlock(x, y, z, world.BlockAir)

	affected := []world.ChunkCoord{coord}
	dim := ch.Dim
	if x == 0 {
		affected = append(affected, coord.Neighbor(world.West))
	}
	if x == dim.Width-1 {
		affected = append(affected, coord.Neighbor(world.East))
	}
	if z == 0 {
		affected = append(affected, coord.Neighbor(world.South))
	}
	if z == dim.Depth-1 {
		affected = append(affected, coord.Neighbor(world.North))
	}

	remeshed := affected[:0]
	for _, a := range affected {
		if c.remesher.Remesh(a) {
			remeshed = append(remeshed, a)
		}
	}
	c.log.Debug("voxel destroyed", "chunk", coord, "x", x, "y", y, "z", z, "remeshed", len(remeshed))
	return remeshed, nil
}

// DestroyAt resolves a raycast hit and destroys the voxel behind it.
func (c *Controller) DestroyAt(hit, normal mgl32.Vec3) ([]world.ChunkCoord, error) {
	t, err := c.Resolve(hit, normal)
	if err != nil {
		return nil, err
	}
	return c.DestroyVoxel(t.Coord, t.X, t.Y, t.Z)
}
