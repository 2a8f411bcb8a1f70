package edit

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/world"
)

var (
	dim     = world.Dimensions{Width: 16, Height: 32, Depth: 16}
	testLog = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type fakeRemesher struct {
	visuals map[world.ChunkCoord]bool
	calls   []world.ChunkCoord
}

func (f *fakeRemesher) Remesh(coord world.ChunkCoord) bool {
	f.calls = append(f.calls, coord)
	return f.visuals[coord]
}

// setup stores calculated solid chunks for the 5x5 block around (2,3) and
// gives every one of them a visual.
func setup() (*world.ChunkStore, *fakeRemesher) {
	store := world.NewChunkStore(dim)
	rm := &fakeRemesher{visuals: make(map[world.ChunkCoord]bool)}
	for x := 0; x <= 4; x++ {
		for z := 1; z <= 5; z++ {
			c, _ := store.GetOrCreate(world.ChunkCoord{X: x, Z: z})
			for lx := range dim.Width {
				for lz := range dim.Depth {
					c.FillColumn(lx, lz, 20, world.BlockStone)
				}
			}
			c.MarkCalculated()
			rm.visuals[c.Coord] = true
		}
	}
	return store, rm
}

func TestDestroyWestBoundaryVoxel(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)

	coord := world.ChunkCoord{X: 2, Z: 3}
	remeshed, err := ctl.DestroyVoxel(coord, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []world.ChunkCoord{{X: 2, Z: 3}, {X: 1, Z: 3}}
	if len(remeshed) != len(want) {
		t.Fatalf("remeshed %v, want %v", remeshed, want)
	}
	for i := range want {
		if remeshed[i] != want[i] {
			t.Errorf("remeshed[%d] = %v, want %v", i, remeshed[i], want[i])
		}
	}
	if store.Get(coord).Block(0, 10, 5) != world.BlockAir {
		t.Errorf("voxel not cleared")
	}
}

func TestDestroyCornerVoxel(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)

	remeshed, err := ctl.DestroyVoxel(world.ChunkCoord{X: 2, Z: 3}, dim.Width-1, 3, dim.Depth-1)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[world.ChunkCoord]bool)
	for _, c := range remeshed {
		got[c] = true
	}
	for _, c := range []world.ChunkCoord{{X: 2, Z: 3}, {X: 3, Z: 3}, {X: 2, Z: 4}} {
		if !got[c] {
			t.Errorf("%v not remeshed", c)
		}
	}
	if len(remeshed) != 3 {
		t.Errorf("remeshed %v", remeshed)
	}
}

func TestDestroyInteriorVoxel(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)
	remeshed, err := ctl.DestroyVoxel(world.ChunkCoord{X: 2, Z: 3}, 7, 7, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(remeshed) != 1 {
		t.Errorf("interior edit remeshed %v", remeshed)
	}
}

func TestDestroySkipsMissingVisuals(t *testing.T) {
	store, rm := setup()
	delete(rm.visuals, world.ChunkCoord{X: 1, Z: 3})
	ctl := NewController(store, rm, 1, testLog)

	remeshed, err := ctl.DestroyVoxel(world.ChunkCoord{X: 2, Z: 3}, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(remeshed) != 1 || remeshed[0] != (world.ChunkCoord{X: 2, Z: 3}) {
		t.Errorf("remeshed %v", remeshed)
	}
	if len(rm.calls) != 2 {
		t.Errorf("Remesh called %d times, want 2", len(rm.calls))
	}
}

func TestDestroyErrors(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)

	if _, err := ctl.DestroyVoxel(world.ChunkCoord{X: 50}, 0, 0, 0); !errors.Is(err, ErrNoChunk) {
		t.Errorf("missing chunk: err = %v", err)
	}
	if _, err := ctl.DestroyVoxel(world.ChunkCoord{X: 2, Z: 3}, 0, dim.Height, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out of bounds: err = %v", err)
	}
	pending, _ := store.GetOrCreate(world.ChunkCoord{X: 9, Z: 9})
	if _, err := ctl.DestroyVoxel(pending.Coord, 0, 0, 0); !errors.Is(err, ErrNotReady) {
		t.Errorf("pending chunk: err = %v", err)
	}
	if len(rm.calls) != 0 {
		t.Errorf("failed edits triggered remeshes")
	}
}

func TestResolve(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)
	want := Target{Coord: world.ChunkCoord{X: 2, Z: 3}, X: 0, Y: 10, Z: 5}

	cases := []struct {
		name        string
		hit, normal mgl32.Vec3
	}{
		{"top face", mgl32.Vec3{24.5, -5, 45.5}, mgl32.Vec3{0, 1, 0}},
		{"west face", mgl32.Vec3{24, -5.5, 45.5}, mgl32.Vec3{-1, 0, 0}},
		{"south face", mgl32.Vec3{24.25, -5.75, 45}, mgl32.Vec3{0, 0, -1}},
	}
	for _, tc := range cases {
		got, err := ctl.Resolve(tc.hit, tc.normal)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != want {
			t.Errorf("%s: got %v, want %v", tc.name, got, want)
		}
	}
}

func TestResolveLowBoundaryBelowZero(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)

	// x = -8 is the west face of chunk 0 exactly as x = 24 is that of chunk 2.
	cases := []struct {
		hit  mgl32.Vec3
		want Target
	}{
		{mgl32.Vec3{-8, -5, 45.5}, Target{Coord: world.ChunkCoord{X: 0, Z: 3}, X: 0, Y: 10, Z: 5}},
		{mgl32.Vec3{24, -5, 45.5}, Target{Coord: world.ChunkCoord{X: 2, Z: 3}, X: 0, Y: 10, Z: 5}},
	}
	for _, tc := range cases {
		got, err := ctl.Resolve(tc.hit, mgl32.Vec3{0, 1, 0})
		if err != nil {
			t.Fatalf("Resolve(%v): %v", tc.hit, err)
		}
		if got != tc.want {
			t.Errorf("Resolve(%v) = %v, want %v", tc.hit, got, tc.want)
		}
	}
}

func TestResolveScaled(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 2, testLog)
	// chunk (1,2) spans x 16..48, z 48..80; voxel (3,4,6) min corner (22, -24, 60)
	got, err := ctl.Resolve(mgl32.Vec3{23, -22, 61}, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Target{Coord: world.ChunkCoord{X: 1, Z: 2}, X: 3, Y: 4, Z: 6}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDestroyAt(t *testing.T) {
	store, rm := setup()
	ctl := NewController(store, rm, 1, testLog)

	remeshed, err := ctl.DestroyAt(mgl32.Vec3{24.5, -5, 45.5}, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(remeshed) != 2 {
		t.Errorf("remeshed %v", remeshed)
	}
	if _, err := ctl.DestroyAt(mgl32.Vec3{24.5, -500, 45.5}, mgl32.Vec3{0, 1, 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("below the world: err = %v", err)
	}
	if _, err := ctl.DestroyAt(mgl32.Vec3{5000, 0, 0}, mgl32.Vec3{0, 1, 0}); !errors.Is(err, ErrNoChunk) {
		t.Errorf("far away: err = %v", err)
	}
}
