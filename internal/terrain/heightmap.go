package terrain

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alitto/pond/v2"

	"voxelterrain/internal/noise"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/spline"
	"voxelterrain/internal/world"
)

// Layer is a noise field whose samples are remapped to heights by a curve.
type Layer struct {
	Field noise.Field
	Curve *spline.Curve
}

// Height returns the layer's contribution at a world column.
func (l Layer) Height(worldX, worldZ int) int {
	return int(l.Curve.Evaluate(l.Field.Sample2D(float64(worldX), float64(worldZ))))
}

// CheckedHeight is Height that also returns spline.ErrOutOfDomain when the
// sample lands at or past the curve's last point. The height is clamped either way.
func (l Layer) CheckedHeight(worldX, worldZ int) (int, error) {
	v, err := l.Curve.EvaluateChecked(l.Field.Sample2D(float64(worldX), float64(worldZ)))
	return int(v), err
}

// Heightmap fills each column solid below BaseOffset plus the sum of its layers.
type Heightmap struct {
	BaseOffset int
	Layers     []Layer
	// Log receives the first out-of-domain spline sample. May be nil.
	Log *slog.Logger

	pool        pond.Pool // nil for serial fills
	outOfDomain sync.Once
}

// NewHeightmap creates a heightmap generator. With workers > 1 columns are
// filled in parallel, one task per x slab.
func NewHeightmap(baseOffset int, layers []Layer, workers int) *Heightmap {
	h := &Heightmap{
		BaseOffset: baseOffset,
		Layers:     layers,
	}
	if workers > 1 {
		h.pool = pond.NewPool(workers)
	}
	return h
}

// HeightAt computes the column's base height in blocks.
func (h *Heightmap) HeightAt(worldX, worldZ int) int {
	height := h.BaseOffset
	for i, l := range h.Layers {
		v, err := l.CheckedHeight(worldX, worldZ)
		if err != nil {
			h.reportDomain(i, worldX, worldZ, err)
		}
		height += v
	}
	return height
}

func (h *Heightmap) reportDomain(layer, worldX, worldZ int, err error) {
	h.outOfDomain.Do(func() {
		if h.Log != nil {
			h.Log.Warn("spline sample clamped; further ones are not reported",
				"layer", layer, "x", worldX, "z", worldZ, "err", err)
		}
	})
}

// Fill writes every column of c. It does not publish the chunk.
func (h *Heightmap) Fill(_ context.Context, c *world.Chunk) error {
	defer profiling.Track("terrain.Fill")()

	baseX := c.Coord.X * c.Dim.Width
	baseZ := c.Coord.Z * c.Dim.Depth
	slab := func(x int) {
		for z := range c.Dim.Depth {
			c.FillColumn(x, z, h.HeightAt(baseX+x, baseZ+z), SolidBlock)
		}
	}

	if h.pool == nil {
		for x := range c.Dim.Width {
			slab(x)
		}
		return nil
	}

	// Slabs write disjoint parts of the grid.
	group := h.pool.NewGroup()
	for x := range c.Dim.Width {
		group.Submit(func() { slab(x) })
	}
	return group.Wait()
}

// Close stops the column pool, if any.
func (h *Heightmap) Close() error {
	if h.pool != nil {
		h.pool.StopAndWait()
	}
	return nil
}
