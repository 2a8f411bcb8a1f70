package terrain

import (
	"context"

	"voxelterrain/internal/noise"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/world"
)

// DefaultDensityScale is the block distance covered by one unit of noise
// space; world coordinates are divided by it before sampling.
const DefaultDensityScale = 0.35

// Density marks a voxel solid where 3D noise exceeds Threshold. Ceiling and
// the upper band are disabled when zero.
type Density struct {
	Field     noise.Field
	Scale     float64
	Threshold float32

	// Voxels at or above Ceiling are always empty.
	Ceiling int
	// Voxels in [UpperBandStart, Ceiling) need UpperBandThreshold.
	UpperBandStart     int
	UpperBandThreshold float32
}

func NewDensity(field noise.Field) *Density {
	return &Density{
		Field:              field,
		Scale:              DefaultDensityScale,
		UpperBandThreshold: 0.8,
	}
}

// Solid evaluates the density rule for a world voxel.
func (d *Density) Solid(worldX, y, worldZ int) bool {
	if d.Ceiling > 0 && y >= d.Ceiling {
		return false
	}
	threshold := d.Threshold
	if d.UpperBandStart > 0 && y >= d.UpperBandStart {
		threshold = d.UpperBandThreshold
	}
	s := d.Scale
	if s <= 0 {
		s = DefaultDensityScale
	}
	return d.Field.Sample3D(float64(worldX)/s, float64(y)/s, float64(worldZ)/s) > threshold
}

// HeightAt scans the column downward from the ceiling (or 256) and returns
// one above the highest solid voxel.
func (d *Density) HeightAt(worldX, worldZ int) int {
	top := d.Ceiling
	if top <= 0 {
		top = 256
	}
	for y := top - 1; y >= 0; y-- {
		if d.Solid(worldX, y, worldZ) {
			return y + 1
		}
	}
	return 0
}

func (d *Density) Fill(_ context.Context, c *world.Chunk) error {
	defer profiling.Track("terrain.Fill")()

	baseX := c.Coord.X * c.Dim.Width
	baseZ := c.Coord.Z * c.Dim.Depth
	for x := range c.Dim.Width {
		for z := range c.Dim.Depth {
			for y := range c.Dim.Height {
				id := world.BlockAir
				if d.Solid(baseX+x, y, baseZ+z) {
					id = SolidBlock
				}
				c.SetBlock(x, y, z, id)
			}
		}
	}
	return nil
}
