// Package mesh provides vertex types and index-buffer deduplication for
// triangle meshes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Deduplication errors.
var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrIncompleteTriangle = errors.New("corner count is not a multiple of 3")
	ErrFrameMismatch      = errors.New("frame topology mismatch")
)

// Vertex is a packed vertex record: position, normal and texture coordinate.
// Two vertices are equal only if all eight floats compare equal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// NewVertex builds a vertex from its eight components.
func NewVertex(x, y, z, nx, ny, nz, u, v float32) Vertex {
	return Vertex{
		Position: mgl32.Vec3{x, y, z},
		Normal:   mgl32.Vec3{nx, ny, nz},
		UV:       mgl32.Vec2{u, v},
	}
}

// Floats returns the vertex in on-disk order.
func (v Vertex) Floats() [8]float32 {
	return [8]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.UV[0], v.UV[1],
	}
}

// VertexFromFloats is the inverse of Floats.
func VertexFromFloats(f [8]float32) Vertex {
	return NewVertex(f[0], f[1], f[2], f[3], f[4], f[5], f[6], f[7])
}

// Triangle holds three indices into a vertex table.
type Triangle [3]uint32

// MaxIndex returns the largest of the three indices.
func (t Triangle) MaxIndex() uint32 {
	m := t[0]
	if t[1] > m {
		m = t[1]
	}
	if t[2] > m {
		m = t[2]
	}
	return m
}

// CheckBounds returns an error wrapping ErrIndexOutOfRange for the first
// triangle that references a vertex at or beyond count.
func CheckBounds(tris []Triangle, count int) error {
	for i, tri := range tris {
		if int64(tri.MaxIndex()) >= int64(count) {
			return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i, tri.MaxIndex(), count)
		}
	}
	return nil
}
