package world

import (
	"fmt"
	"math"
)

// ChunkCoord addresses a chunk column on the horizontal grid.
type ChunkCoord struct {
	X, Z int
}

// Cardinal indexes the four horizontal neighbours of a chunk.
type Cardinal int

const (
	North Cardinal = iota // z+1
	East                  // x+1
	South                 // z-1
	West                  // x-1
)

// NumCardinals is the number of horizontal neighbours.
const NumCardinals = 4

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Neighbor returns the adjacent coordinate in direction d.
func (c ChunkCoord) Neighbor(d Cardinal) ChunkCoord {
	switch d {
	case North:
		return ChunkCoord{X: c.X, Z: c.Z + 1}
	case East:
		return ChunkCoord{X: c.X + 1, Z: c.Z}
	case South:
		return ChunkCoord{X: c.X, Z: c.Z - 1}
	case West:
		return ChunkCoord{X: c.X - 1, Z: c.Z}
	}
	return c
}

// Neighbors returns the four cardinal neighbours in North, East, South, West order.
func (c ChunkCoord) Neighbors() [NumCardinals]ChunkCoord {
	return [NumCardinals]ChunkCoord{
		c.Neighbor(North),
		c.Neighbor(East),
		c.Neighbor(South),
		c.Neighbor(West),
	}
}

// Dimensions describes the fixed voxel extent of every chunk in a session.
type Dimensions struct {
	Width  int `yaml:"width"`  // x
	Height int `yaml:"height"` // y
	Depth  int `yaml:"depth"`  // z
}

// Volume returns the number of voxels in a chunk.
func (d Dimensions) Volume() int {
	return d.Width * d.Height * d.Depth
}

// Valid reports whether all extents are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Depth > 0
}

// ChunkCoordAt projects a world-space horizontal position onto the chunk grid.
// Chunks are centred on multiples of their world extent, so the projection
// rounds half up: a chunk owns its low face (-W/2 local) but not its high one.
func ChunkCoordAt(worldX, worldZ float64, dim Dimensions, voxelSize float64) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(worldX/(float64(dim.Width)*voxelSize) + 0.5)),
		Z: int(math.Floor(worldZ/(float64(dim.Depth)*voxelSize) + 0.5)),
	}
}
