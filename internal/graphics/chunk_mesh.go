package graphics

import (
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/meshing"
	"voxelterrain/internal/world"
)

// ChunkMesh is one chunk's payload resident on the GPU.
type ChunkMesh struct {
	vao, vbo, ebo uint32
	count         int32
	Origin        mgl32.Vec3
	Bounds        meshing.AABB
}

func newChunkMesh(origin mgl32.Vec3, p *meshing.Payload) *ChunkMesh {
	m := &ChunkMesh{Origin: origin}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	m.upload(p)
	return m
}

func (m *ChunkMesh) upload(p *meshing.Payload) {
	m.count = int32(len(p.Indices))
	m.Bounds = meshing.AABB{Min: p.Bounds.Min.Add(m.Origin), Max: p.Bounds.Max.Add(m.Origin)}
	if m.count == 0 {
		return
	}

	data := p.Interleave()
	const stride = meshing.VertexStride * 4

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.BindVertexArray(0)
}

func (m *ChunkMesh) draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
}

func (m *ChunkMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// MeshSink receives finished payloads and keeps them on the GPU. Every
// method must be called on the GL thread.
type MeshSink struct {
	meshes map[world.ChunkCoord]*ChunkMesh
	log    *slog.Logger
}

func NewMeshSink(log *slog.Logger) *MeshSink {
	return &MeshSink{meshes: make(map[world.ChunkCoord]*ChunkMesh), log: log}
}

// Apply uploads p for coord, reusing the chunk's buffers when it is remeshed.
func (s *MeshSink) Apply(coord world.ChunkCoord, origin mgl32.Vec3, p *meshing.Payload) {
	if m, ok := s.meshes[coord]; ok {
		m.Origin = origin
		m.upload(p)
		return
	}
	s.meshes[coord] = newChunkMesh(origin, p)
	s.log.Debug("mesh uploaded", "chunk", coord, "faces", p.Faces())
}

func (s *MeshSink) Release(coord world.ChunkCoord) {
	m, ok := s.meshes[coord]
	if !ok {
		return
	}
	m.delete()
	delete(s.meshes, coord)
}

// Draw renders every mesh inside the frustum and returns how many were drawn.
// The shader must expose a "model" mat4 uniform.
func (s *MeshSink) Draw(shader *Shader, frustum Frustum) int {
	drawn := 0
	for _, m := range s.meshes {
		if m.count == 0 || !frustum.Intersects(m.Bounds.Min, m.Bounds.Max) {
			continue
		}
		model := mgl32.Translate3D(m.Origin.X(), m.Origin.Y(), m.Origin.Z())
		shader.SetMatrix4("model", &model[0])
		m.draw()
		drawn++
	}
	gl.BindVertexArray(0)
	return drawn
}

func (s *MeshSink) Len() int {
	return len(s.meshes)
}

// Dispose frees every mesh.
func (s *MeshSink) Dispose() {
	for coord := range s.meshes {
		s.Release(coord)
	}
}
