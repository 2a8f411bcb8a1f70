package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one mesh vertex in chunk-local space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Size returns the box extent per axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Payload is the result of meshing one chunk: an indexed triangle list.
type Payload struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   AABB
}

// Empty reports whether the payload has no triangles.
func (p *Payload) Empty() bool {
	return p == nil || len(p.Indices) == 0
}

// Faces returns the number of emitted quads.
func (p *Payload) Faces() int {
	if p == nil {
		return 0
	}
	return len(p.Indices) / len(quadWinding)
}

// Interleave packs vertices as pos.xyz, normal.xyz, uv.xy for GPU upload.
func (p *Payload) Interleave() []float32 {
	out := make([]float32, 0, len(p.Vertices)*VertexStride)
	for _, v := range p.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// VertexStride is number of float32 per interleaved vertex (pos.xyz + normal.xyz + uv)
const VertexStride = 8
