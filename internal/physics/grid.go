package physics

import (
	"voxelterrain/internal/world"
)

// StoreQuery answers VoxelQuery from a chunk store. Global cell x maps to
// chunk floor((x+W/2)/W); chunks that are not calculated read as empty.
type StoreQuery struct {
	Store *world.ChunkStore
}

func (q StoreQuery) Solid(x, y, z int) bool {
	dim := q.Store.Dimensions()
	gx := x + dim.Width/2
	gz := z + dim.Depth/2
	ly := y + dim.Height/2

	cx := floorDiv(gx, dim.Width)
	cz := floorDiv(gz, dim.Depth)
	c := q.Store.Get(world.ChunkCoord{X: cx, Z: cz})
	if c == nil || !c.Calculated() {
		return false
	}
	return c.Block(gx-cx*dim.Width, ly, gz-cz*dim.Depth) != world.BlockAir
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
