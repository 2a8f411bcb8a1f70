package world

import (
	"sync"
	"testing"
)

var testDim = Dimensions{Width: 16, Height: 32, Depth: 16}

func TestGetOrCreateSingleEntry(t *testing.T) {
	cs := NewChunkStore(testDim)
	coord := ChunkCoord{X: 2, Z: -3}

	a, created := cs.GetOrCreate(coord)
	if !created {
		t.Fatalf("first GetOrCreate should create")
	}
	b, created := cs.GetOrCreate(coord)
	if created {
		t.Errorf("second GetOrCreate should not create")
	}
	if a != b {
		t.Errorf("coordinate mapped to two chunks")
	}
	if cs.Len() != 1 {
		t.Errorf("Len = %d, want 1", cs.Len())
	}
}

func TestGetOrCreateConcurrent(t *testing.T) {
	cs := NewChunkStore(testDim)
	coord := ChunkCoord{X: 1, Z: 1}

	var wg sync.WaitGroup
	results := make([]*Chunk, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cs.GetOrCreate(coord)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d got a different chunk", i)
		}
	}
	if cs.ModCount() != 1 {
		t.Errorf("ModCount = %d, want 1", cs.ModCount())
	}
}

func TestNeighborsOrder(t *testing.T) {
	cs := NewChunkStore(testDim)
	center := ChunkCoord{X: 0, Z: 0}
	north, _ := cs.GetOrCreate(ChunkCoord{X: 0, Z: 1})
	west, _ := cs.GetOrCreate(ChunkCoord{X: -1, Z: 0})

	n := cs.Neighbors(center)
	if n[North] != north {
		t.Errorf("north neighbour mismatch")
	}
	if n[West] != west {
		t.Errorf("west neighbour mismatch")
	}
	if n[East] != nil || n[South] != nil {
		t.Errorf("missing neighbours should be nil")
	}
}

func TestEvictFarChunks(t *testing.T) {
	cs := NewChunkStore(testDim)
	for x := -3; x <= 3; x++ {
		cs.GetOrCreate(ChunkCoord{X: x, Z: 0})
	}
	removed := cs.EvictFarChunks(ChunkCoord{}, 1)
	if removed != 4 {
		t.Errorf("removed %d chunks, want 4", removed)
	}
	if !cs.Has(ChunkCoord{X: 1, Z: 0}) || cs.Has(ChunkCoord{X: 2, Z: 0}) {
		t.Errorf("eviction kept the wrong chunks")
	}
}

func TestChunkCoordAtRounds(t *testing.T) {
	dim := Dimensions{Width: 16, Height: 256, Depth: 16}
	cases := []struct {
		x, z float64
		want ChunkCoord
	}{
		{0, 0, ChunkCoord{0, 0}},
		{7.9, -7.9, ChunkCoord{0, 0}},
		{8.1, 0, ChunkCoord{1, 0}},
		{-8.1, 24.5, ChunkCoord{-1, 2}},
		{16, 0, ChunkCoord{1, 0}},
		// Exact half-extent boundaries belong to the chunk above on both sides of zero.
		{-8, -8, ChunkCoord{0, 0}},
		{8, 8, ChunkCoord{1, 1}},
		{-24, 40, ChunkCoord{-1, 3}},
	}
	for _, tc := range cases {
		if got := ChunkCoordAt(tc.x, tc.z, dim, 1); got != tc.want {
			t.Errorf("ChunkCoordAt(%v, %v) = %v, want %v", tc.x, tc.z, got, tc.want)
		}
	}
	if got := ChunkCoordAt(33, 0, dim, 2); got != (ChunkCoord{1, 0}) {
		t.Errorf("voxel size not applied: got %v", got)
	}
}
