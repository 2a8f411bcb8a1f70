package world

// BlockID identifies the content of a single voxel. Zero is empty.
type BlockID uint16

const (
	BlockAir BlockID = iota
	BlockStone
)

// BlockFace identifies a face of a voxel
type BlockFace int

const (
	FaceNorth BlockFace = iota // +Z
	FaceSouth                  // -Z
	FaceEast                   // +X
	FaceWest                   // -X
	FaceTop                    // +Y
	FaceBottom                 // -Y
)

// NumFaces is the number of faces of a voxel.
const NumFaces = 6

// Offset returns the unit step from a voxel to the voxel behind the face.
func (f BlockFace) Offset() (dx, dy, dz int) {
	switch f {
	case FaceNorth:
		return 0, 0, 1
	case FaceSouth:
		return 0, 0, -1
	case FaceEast:
		return 1, 0, 0
	case FaceWest:
		return -1, 0, 0
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	}
	return 0, 0, 0
}

func (f BlockFace) String() string {
	switch f {
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	}
	return "unknown"
}
