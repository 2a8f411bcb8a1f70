package meshing

import (
	"voxelterrain/internal/registry"
	"voxelterrain/internal/world"
)

// UVRect is a rectangle in normalised texture space.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// Map remaps a unit UV into the rectangle.
func (r UVRect) Map(u, v float32) (float32, float32) {
	return r.U0 + u*(r.U1-r.U0), r.V0 + v*(r.V1-r.V0)
}

// Atlas maps a block face to its texture rectangle.
type Atlas interface {
	Rect(id world.BlockID, face world.BlockFace) UVRect
}

// FullAtlas maps every face to the whole texture.
type FullAtlas struct{}

func (FullAtlas) Rect(world.BlockID, world.BlockFace) UVRect {
	return UVRect{0, 0, 1, 1}
}

// GridAtlas is a texture split into Columns x Rows equal tiles, indexed
// row-major from the top-left. Tile indices come from the block registry;
// unknown blocks use tile 0.
type GridAtlas struct {
	Columns, Rows int
	blocks        *registry.Registry
}

func NewGridAtlas(columns, rows int, blocks *registry.Registry) *GridAtlas {
	return &GridAtlas{Columns: columns, Rows: rows, blocks: blocks}
}

func (a *GridAtlas) Rect(id world.BlockID, face world.BlockFace) UVRect {
	tile := 0
	if def, ok := a.blocks.Get(id); ok {
		tile = def.Tile(face)
	}
	return a.TileRect(tile)
}

// TileRect returns the rectangle of tile i.
func (a *GridAtlas) TileRect(i int) UVRect {
	if i < 0 || i >= a.Columns*a.Rows {
		i = 0
	}
	w := 1 / float32(a.Columns)
	h := 1 / float32(a.Rows)
	col := float32(i % a.Columns)
	row := float32(i / a.Columns)
	return UVRect{U0: col * w, V0: row * h, U1: (col + 1) * w, V1: (row + 1) * h}
}
