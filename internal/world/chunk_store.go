package world

import (
	"sync"
)

// ChunkStore is the identity source of truth for chunks: one entry per coordinate.
type ChunkStore struct {
	dim Dimensions

	mu       sync.RWMutex
	chunks   map[ChunkCoord]*Chunk
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates a store for chunks of the given dimensions.
func NewChunkStore(dim Dimensions) *ChunkStore {
	return &ChunkStore{
		dim:    dim,
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Dimensions returns the fixed chunk extent of this store.
func (cs *ChunkStore) Dimensions() Dimensions {
	return cs.dim
}

// Get returns the chunk at coord, or nil.
func (cs *ChunkStore) Get(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// Has checks if a chunk exists without creating it.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// GetOrCreate returns the chunk at coord, allocating an empty pending chunk
// if none exists. created reports whether this call inserted it.
func (cs *ChunkStore) GetOrCreate(coord ChunkCoord) (chunk *Chunk, created bool) {
	cs.mu.RLock()
	chunk, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	if ok {
		return chunk, false
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	// Double-check: another goroutine might have created it while we were waiting for the lock
	if existing, ok := cs.chunks[coord]; ok {
		return existing, false
	}
	chunk = NewChunk(coord, cs.dim)
	cs.chunks[coord] = chunk
	cs.modCount++
	return chunk, true
}

// Neighbors looks up the four cardinal neighbours of coord in North, East,
// South, West order. Missing entries are nil.
func (cs *ChunkStore) Neighbors(coord ChunkCoord) [NumCardinals]*Chunk {
	var out [NumCardinals]*Chunk
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for i, n := range coord.Neighbors() {
		out[i] = cs.chunks[n]
	}
	return out
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes chunks whose Chebyshev distance from center exceeds radius.
// Returns number of removed chunks.
func (cs *ChunkStore) EvictFarChunks(center ChunkCoord, radius int) int {
	removed := 0
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for coord := range cs.chunks {
		if abs(coord.X-center.X) > radius || abs(coord.Z-center.Z) > radius {
			delete(cs.chunks, coord)
			cs.modCount++
			removed++
		}
	}
	return removed
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
