package streaming

import (
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/world"
)

// VisualState tracks a chunk's progress from data to an applied mesh.
type VisualState int

const (
	Unbuilt VisualState = iota
	PendingGeneration
	PendingMesh
	Applied
)

func (s VisualState) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case PendingGeneration:
		return "pending-generation"
	case PendingMesh:
		return "pending-mesh"
	case Applied:
		return "applied"
	}
	return "unknown"
}

// Visual is the renderable counterpart of a chunk in the active window.
// Neighbours are kept as coordinates and resolved through the store.
type Visual struct {
	Coord     world.ChunkCoord
	Neighbors [world.NumCardinals]world.ChunkCoord
	State     VisualState

	request    *meshing.Request
	payload    *meshing.Payload
	failLogged bool
}

// Payload returns the last payload handed to the sink, if any.
func (v *Visual) Payload() *meshing.Payload {
	return v.payload
}

// Request returns the in-flight mesh request, if any.
func (v *Visual) Request() *meshing.Request {
	return v.request
}

func newVisual(coord world.ChunkCoord) *Visual {
	return &Visual{Coord: coord, Neighbors: coord.Neighbors(), State: Unbuilt}
}
