package meshing

import (
	"voxelterrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// faceDef is the unit-cube quad for one voxel face. Corners are ordered
// counter-clockwise seen from outside the voxel.
type faceDef struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
	uvs     [4]mgl32.Vec2
}

// Every face starts at the corner textured (0,1), i.e. bottom-left of the tile.
var faceUVs = [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

var faces = [world.NumFaces]faceDef{
	world.FaceNorth: {
		normal:  mgl32.Vec3{0, 0, 1},
		corners: [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
		uvs:     faceUVs,
	},
	world.FaceSouth: {
		normal:  mgl32.Vec3{0, 0, -1},
		corners: [4]mgl32.Vec3{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		uvs:     faceUVs,
	},
	world.FaceEast: {
		normal:  mgl32.Vec3{1, 0, 0},
		corners: [4]mgl32.Vec3{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
		uvs:     faceUVs,
	},
	world.FaceWest: {
		normal:  mgl32.Vec3{-1, 0, 0},
		corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		uvs:     faceUVs,
	},
	world.FaceTop: {
		normal:  mgl32.Vec3{0, 1, 0},
		corners: [4]mgl32.Vec3{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
		uvs:     faceUVs,
	},
	world.FaceBottom: {
		normal:  mgl32.Vec3{0, -1, 0},
		corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		uvs:     faceUVs,
	},
}

// quadWinding splits a face quad into two front-facing triangles.
var quadWinding = [6]uint32{0, 1, 2, 0, 2, 3}
