// Package registry holds the block definitions of a session.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"voxelterrain/internal/world"
)

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID   world.BlockID `yaml:"id"`
	Name string        `yaml:"name"`

	// Atlas tile indices per face group
	TileTop    int `yaml:"top"`
	TileSide   int `yaml:"side"`
	TileBottom int `yaml:"bottom"`
}

// Tile returns the atlas tile for a face.
func (d *BlockDefinition) Tile(face world.BlockFace) int {
	switch face {
	case world.FaceTop:
		return d.TileTop
	case world.FaceBottom:
		return d.TileBottom
	default:
		return d.TileSide
	}
}

// Registry maps block ids and names to definitions. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	blocks map[world.BlockID]*BlockDefinition
	names  map[string]world.BlockID
}

func New() *Registry {
	return &Registry{
		blocks: make(map[world.BlockID]*BlockDefinition),
		names:  make(map[string]world.BlockID),
	}
}

// Default returns a registry containing stone on tile 0.
func Default() *Registry {
	r := New()
	_ = r.Register(BlockDefinition{ID: world.BlockStone, Name: "stone"})
	return r
}

// Register adds def. The empty id 0 and duplicate ids or names are rejected.
func (r *Registry) Register(def BlockDefinition) error {
	if def.ID == world.BlockAir {
		return fmt.Errorf("block %q: id 0 is reserved for empty", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[def.ID]; ok {
		return fmt.Errorf("block id %d registered twice", def.ID)
	}
	if _, ok := r.names[def.Name]; ok && def.Name != "" {
		return fmt.Errorf("block name %q registered twice", def.Name)
	}
	r.blocks[def.ID] = &def
	if def.Name != "" {
		r.names[def.Name] = def.ID
	}
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id world.BlockID) (*BlockDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.blocks[id]
	return def, ok
}

// Lookup resolves a block name.
func (r *Registry) Lookup(name string) (world.BlockID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	return id, ok
}

// Definitions returns all definitions ordered by id.
func (r *Registry) Definitions() []*BlockDefinition {
	r.mu.RLock()
	out := make([]*BlockDefinition, 0, len(r.blocks))
	for _, d := range r.blocks {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
