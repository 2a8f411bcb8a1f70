package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/physics"
	"voxelterrain/internal/world"
)

type cells map[[3]int]bool

func (c cells) Solid(x, y, z int) bool { return c[[3]int{x, y, z}] }

func TestRaycast(t *testing.T) {
	w := cells{{5, 0, 0}: true}

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	minDist := float32(0.1)
	maxDist := float32(10.0)

	result := physics.Raycast(start, dir, minDist, maxDist, 1, w)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.Cell != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.Cell)
	}
	if result.Adjacent != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.Adjacent)
	}
	if result.Distance < 4.49 || result.Distance > 4.51 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}
	if result.Normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("Expected west normal, got %v", result.Normal)
	}
	if !result.Point.ApproxEqualThreshold(mgl32.Vec3{5, 0.5, 0.5}, 1e-4) {
		t.Errorf("Expected hit point (5,0.5,0.5), got %v", result.Point)
	}

	// Miss due to maxDist
	if r := physics.Raycast(start, dir, minDist, 4.0, 1, w); r.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.Cell)
	}

	// Miss in the wrong direction
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, minDist, maxDist, 1, w); r.Hit {
		t.Errorf("Expected miss, got hit")
	}

	// Diagonal: ties step x first, then y, then z, and still reach (2,2,2).
	w[[3]int{2, 2, 2}] = true
	diag := physics.Raycast(start, mgl32.Vec3{1, 1, 1}, minDist, maxDist, 1, w)
	if !diag.Hit || diag.Cell != [3]int{2, 2, 2} {
		t.Errorf("Expected hit at {2,2,2}, got %+v", diag)
	}
}

func TestRaycastNegativeDirection(t *testing.T) {
	w := cells{{-3, -1, 0}: true}
	r := physics.Raycast(mgl32.Vec3{0.5, -0.5, 0.5}, mgl32.Vec3{-1, 0, 0}, 0, 10, 1, w)
	if !r.Hit || r.Cell != [3]int{-3, -1, 0} {
		t.Fatalf("got %+v", r)
	}
	if r.Normal != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("normal = %v", r.Normal)
	}
}

func TestRaycastCellSize(t *testing.T) {
	w := cells{{0, -2, 0}: true}
	r := physics.Raycast(mgl32.Vec3{1, 3, 1}, mgl32.Vec3{0, -1, 0}, 0, 20, 2, w)
	if !r.Hit {
		t.Fatal("expected hit")
	}
	// cell y=-2 spans [-4,-2) at size 2; the ray enters its top at y=-2
	if r.Distance < 4.99 || r.Distance > 5.01 {
		t.Errorf("distance = %v, want 5", r.Distance)
	}
	if r.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal = %v", r.Normal)
	}
}

func TestStoreQuery(t *testing.T) {
	dim := world.Dimensions{Width: 16, Height: 32, Depth: 16}
	store := world.NewChunkStore(dim)

	c, _ := store.GetOrCreate(world.ChunkCoord{X: 0, Z: 0})
	c.SetBlock(13, 16, 8, world.BlockStone)
	west, _ := store.GetOrCreate(world.ChunkCoord{X: -1, Z: 0})
	west.SetBlock(15, 16, 8, world.BlockStone)

	q := physics.StoreQuery{Store: store}
	if q.Solid(5, 0, 0) {
		t.Errorf("uncalculated chunk should read empty")
	}
	c.MarkCalculated()
	west.MarkCalculated()

	if !q.Solid(5, 0, 0) {
		t.Errorf("expected solid at global (5,0,0)")
	}
	if !q.Solid(-9, 0, 0) {
		t.Errorf("expected solid at global (-9,0,0) in the west chunk")
	}
	if q.Solid(0, 0, 0) || q.Solid(5, 100, 0) {
		t.Errorf("unexpected solid cell")
	}

	r := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0, 16, 1, q)
	if !r.Hit || r.Cell != [3]int{5, 0, 0} {
		t.Errorf("raycast through store got %+v", r)
	}
}

func BenchmarkRaycast(b *testing.B) {
	dim := world.Dimensions{Width: 16, Height: 256, Depth: 16}
	store := world.NewChunkStore(dim)
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			c, _ := store.GetOrCreate(world.ChunkCoord{X: x, Z: z})
			for lx := range dim.Width {
				for lz := range dim.Depth {
					c.FillColumn(lx, lz, 100, world.BlockStone)
				}
			}
			c.MarkCalculated()
		}
	}
	q := physics.StoreQuery{Store: store}
	start := mgl32.Vec3{0, 10, 0}
	dir := mgl32.Vec3{1, -0.2, 0}.Normalize()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = physics.Raycast(start, dir, physics.MinReachDistance, physics.MaxReachDistance, 1, q)
	}
}
