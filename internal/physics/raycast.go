// Package physics casts rays against the voxel grid.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/profiling"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 64.0
)

// VoxelQuery reports occupancy of a global voxel cell. Cell (x,y,z) covers
// [x, x+1) * cellSize on each axis.
type VoxelQuery interface {
	Solid(x, y, z int) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	Cell     [3]int
	Adjacent [3]int     // last empty cell before the hit
	Point    mgl32.Vec3 // world position where the ray enters Cell
	Normal   mgl32.Vec3 // normal of the face that was entered
	Distance float32
	Hit      bool
}

// Raycast walks the grid cell by cell (Amanatides & Woo) from start along
// direction and returns the first solid cell between minDist and maxDist.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist, cellSize float32, q VoxelQuery) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	if direction.Len() == 0 || cellSize <= 0 {
		return RaycastResult{}
	}
	dir := direction.Normalize()
	o := start.Mul(1 / cellSize)
	limit := maxDist / cellSize
	minT := minDist / cellSize

	var (
		cell   [3]int
		step   [3]int
		tMax   [3]float32
		tDelta [3]float32
	)
	inf := float32(math.Inf(1))
	for i := range 3 {
		cell[i] = int(math.Floor(float64(o[i])))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (float32(cell[i]+1) - o[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (o[i] - float32(cell[i])) / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = inf
			tDelta[i] = inf
		}
	}

	prev := cell
	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > limit {
			return RaycastResult{}
		}

		prev = cell
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if t < minT || !q.Solid(cell[0], cell[1], cell[2]) {
			continue
		}

		var normal mgl32.Vec3
		normal[axis] = -float32(step[axis])
		return RaycastResult{
			Cell:     cell,
			Adjacent: prev,
			Point:    start.Add(dir.Mul(t * cellSize)),
			Normal:   normal,
			Distance: t * cellSize,
			Hit:      true,
		}
	}
}
