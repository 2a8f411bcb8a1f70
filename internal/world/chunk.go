package world

import (
	"sync"
	"sync/atomic"
)

// ChunkState is the publication state of a chunk's voxel grid.
type ChunkState uint32

const (
	// ChunkPending means the grid is still owned by the generation worker.
	ChunkPending ChunkState = iota
	// ChunkCalculated means the grid is filled and safe to read from any goroutine.
	ChunkCalculated
	// ChunkFailed means generation gave up on this chunk.
	ChunkFailed
)

func (s ChunkState) String() string {
	switch s {
	case ChunkPending:
		return "pending"
	case ChunkCalculated:
		return "calculated"
	case ChunkFailed:
		return "failed"
	}
	return "unknown"
}

// Chunk is a fixed-size column of voxels addressed by a ChunkCoord.
//
// The generation worker owns the grid until MarkCalculated; the state field
// is the publication fence and readers must see Calculated() == true before
// touching the grid. After publication, SetBlock takes the write lock and
// goroutines other than the writer's hold RLock for the duration of a read pass.
type Chunk struct {
	Coord  ChunkCoord
	Dim    Dimensions
	mu     sync.RWMutex
	blocks []BlockID
	state  atomic.Uint32
}

// NewChunk allocates an empty, pending chunk.
func NewChunk(coord ChunkCoord, dim Dimensions) *Chunk {
	return &Chunk{
		Coord:  coord,
		Dim:    dim,
		blocks: make([]BlockID, dim.Volume()),
	}
}

// index converts local coordinates (x, y, z) → flat index, x-major like [x][y][z]
func (c *Chunk) index(x, y, z int) int {
	return (x*c.Dim.Height+y)*c.Dim.Depth + z
}

// InBounds reports whether local coordinates address a voxel of this chunk.
func (c *Chunk) InBounds(x, y, z int) bool {
	return x >= 0 && x < c.Dim.Width && y >= 0 && y < c.Dim.Height && z >= 0 && z < c.Dim.Depth
}

// RLock holds off SetBlock until RUnlock. Meshing holds it on a published
// chunk while reading it from the worker goroutine.
func (c *Chunk) RLock() { c.mu.RLock() }

func (c *Chunk) RUnlock() { c.mu.RUnlock() }

// Block returns the voxel at local coordinates. Out of range reads are empty.
// It does not lock; see RLock.
func (c *Chunk) Block(x, y, z int) BlockID {
	if !c.InBounds(x, y, z) {
		return BlockAir
	}
	return c.blocks[c.index(x, y, z)]
}

// SetBlock writes the voxel at local coordinates. Out of range writes are ignored.
func (c *Chunk) SetBlock(x, y, z int, id BlockID) {
	if !c.InBounds(x, y, z) {
		return
	}
	c.mu.Lock()
	c.blocks[c.index(x, y, z)] = id
	c.mu.Unlock()
}

// FillColumn sets voxels y < top of column (x, z) to id and clears the rest.
// Generation only: it does not lock and must run before MarkCalculated.
func (c *Chunk) FillColumn(x, z, top int, id BlockID) {
	for y := 0; y < c.Dim.Height; y++ {
		if y < top {
			c.blocks[c.index(x, y, z)] = id
		} else {
			c.blocks[c.index(x, y, z)] = BlockAir
		}
	}
}

// Reset clears every voxel.
func (c *Chunk) Reset() {
	clear(c.blocks)
}

// IsEmpty reports whether no voxel is set.
func (c *Chunk) IsEmpty() bool {
	for _, b := range c.blocks {
		if b != BlockAir {
			return false
		}
	}
	return true
}

// State returns the publication state with acquire semantics.
func (c *Chunk) State() ChunkState {
	return ChunkState(c.state.Load())
}

// Calculated reports whether the grid has been published.
func (c *Chunk) Calculated() bool {
	return c.State() == ChunkCalculated
}

// Failed reports whether generation of this chunk failed.
func (c *Chunk) Failed() bool {
	return c.State() == ChunkFailed
}

// MarkCalculated publishes the grid. Every grid write made before this call
// is visible to any goroutine that later observes Calculated() == true.
func (c *Chunk) MarkCalculated() {
	c.state.Store(uint32(ChunkCalculated))
}

// MarkFailed records that generation did not complete.
func (c *Chunk) MarkFailed() {
	c.state.Store(uint32(ChunkFailed))
}
