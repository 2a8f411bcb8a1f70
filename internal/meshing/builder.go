// Package meshing turns calculated chunks into face-culled triangle meshes.
package meshing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/profiling"
	"voxelterrain/internal/world"
)

// VerticalBoundary decides whether the space above the top layer and below
// the bottom layer of a chunk counts as occupied.
type VerticalBoundary int

const (
	// BoundarySolid emits no faces against the vertical limits.
	BoundarySolid VerticalBoundary = iota
	// BoundaryEmpty closes the mesh at the top and bottom of the chunk.
	BoundaryEmpty
)

// ParseVerticalBoundary accepts "solid" or "empty".
func ParseVerticalBoundary(s string) (VerticalBoundary, error) {
	switch s {
	case "solid", "":
		return BoundarySolid, nil
	case "empty":
		return BoundaryEmpty, nil
	}
	return BoundarySolid, fmt.Errorf("unknown vertical boundary %q", s)
}

func (b VerticalBoundary) String() string {
	if b == BoundaryEmpty {
		return "empty"
	}
	return "solid"
}

// Builder builds one Payload per chunk. It holds no per-chunk state and may
// be shared by concurrent callers.
type Builder struct {
	Atlas            Atlas
	VoxelSize        float32
	VerticalBoundary VerticalBoundary
}

// Build meshes target. neighbors are indexed by world.Cardinal; a nil or
// uncalculated neighbour is treated as solid along that border.
func (b *Builder) Build(target *world.Chunk, neighbors [world.NumCardinals]*world.Chunk) *Payload {
	defer profiling.Track("meshing.Build")()

	unlock := lockForRead(target, neighbors)
	defer unlock()

	dim := target.Dim
	s := b.VoxelSize
	if s == 0 {
		s = 1
	}
	atlas := b.Atlas
	if atlas == nil {
		atlas = FullAtlas{}
	}

	p := &Payload{
		Vertices: make([]Vertex, 0, 1024),
		Indices:  make([]uint32, 0, 1536),
		Bounds: AABB{
			Min: mgl32.Vec3{-float32(dim.Width) / 2 * s, 0, -float32(dim.Depth) / 2 * s},
			Max: mgl32.Vec3{float32(dim.Width) / 2 * s, float32(dim.Height) * s, float32(dim.Depth) / 2 * s},
		},
	}

	halfW := float32(dim.Width) / 2
	halfD := float32(dim.Depth) / 2
	for x := range dim.Width {
		for y := range dim.Height {
			for z := range dim.Depth {
				id := target.Block(x, y, z)
				if id == world.BlockAir {
					continue
				}
				base := mgl32.Vec3{(float32(x) - halfW) * s, float32(y) * s, (float32(z) - halfD) * s}
				for f := range world.NumFaces {
					face := world.BlockFace(f)
					if b.occupied(target, neighbors, x, y, z, face) {
						continue
					}
					p.emitFace(face, base, s, atlas.Rect(id, face))
				}
			}
		}
	}
	return p
}

// lockForRead read-locks target and every calculated neighbour so edits on
// the tick goroutine wait until the pass is done. Uncalculated neighbours are
// never read.
func lockForRead(target *world.Chunk, neighbors [world.NumCardinals]*world.Chunk) func() {
	locked := make([]*world.Chunk, 0, 1+world.NumCardinals)
	if target != nil {
		locked = append(locked, target)
	}
	for _, n := range neighbors {
		if n != nil && n.Calculated() {
			locked = append(locked, n)
		}
	}
	for _, c := range locked {
		c.RLock()
	}
	return func() {
		for _, c := range locked {
			c.RUnlock()
		}
	}
}

// occupied reports whether the cell behind face of voxel (x,y,z) is solid.
func (b *Builder) occupied(c *world.Chunk, neighbors [world.NumCardinals]*world.Chunk, x, y, z int, face world.BlockFace) bool {
	dim := c.Dim
	dx, dy, dz := face.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz

	if ny < 0 || ny >= dim.Height {
		return b.VerticalBoundary == BoundarySolid
	}

	var n *world.Chunk
	switch {
	case nx < 0:
		n, nx = neighbors[world.West], dim.Width-1
	case nx >= dim.Width:
		n, nx = neighbors[world.East], 0
	case nz < 0:
		n, nz = neighbors[world.South], dim.Depth-1
	case nz >= dim.Depth:
		n, nz = neighbors[world.North], 0
	default:
		return c.Block(nx, ny, nz) != world.BlockAir
	}

	if n == nil || !n.Calculated() {
		return true
	}
	return n.Block(nx, ny, nz) != world.BlockAir
}

func (p *Payload) emitFace(face world.BlockFace, base mgl32.Vec3, s float32, rect UVRect) {
	def := &faces[face]
	start := uint32(len(p.Vertices))
	for i, corner := range def.corners {
		u, v := rect.Map(def.uvs[i][0], def.uvs[i][1])
		p.Vertices = append(p.Vertices, Vertex{
			Position: base.Add(corner.Mul(s)),
			Normal:   def.normal,
			UV:       mgl32.Vec2{u, v},
		})
	}
	for _, idx := range quadWinding {
		p.Indices = append(p.Indices, start+idx)
	}
}
