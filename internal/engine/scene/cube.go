package scene

import "github.com/Faultbox/umbra/internal/engine/buffer"

// CubeLayout is the vertex layout of the cube mesh.
var CubeLayout = buffer.Layout{{Name: "position", Components: 3}}

// CubeVertices are the corners of the cube [-1, 1]³. Corner i has +X when
// bit 0 is set, +Y for bit 1 and +Z for bit 2.
var CubeVertices = []float32{
	-1, -1, -1,
	1, -1, -1,
	-1, 1, -1,
	1, 1, -1,
	-1, -1, 1,
	1, -1, 1,
	-1, 1, 1,
	1, 1, 1,
}

// CubeIndices are the 12 outward-facing, counter-clockwise triangles of the
// cube.
var CubeIndices = []uint32{
	0, 2, 3, 0, 3, 1, // -Z
	4, 5, 7, 4, 7, 6, // +Z
	0, 1, 5, 0, 5, 4, // -Y
	2, 6, 7, 2, 7, 3, // +Y
	0, 4, 6, 0, 6, 2, // -X
	1, 3, 7, 1, 7, 5, // +X
}
