// Package mesh builds and loads triangle geometry without touching the GPU.
//
// A Mesh is an indexed triangle list with interleaved position, normal and
// texture coordinate attributes. The core package uploads it to buffers.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved vertex size: 3 position + 3 normal + 2 texcoord.
const FloatsPerVertex = 8

// Vertex is one corner of a triangle.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Mesh is an indexed triangle list. Geometry is not modified after a
// constructor returns it.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles described by Indices.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the index list describes whole triangles and that
// every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh %q has no vertices", m.Name)
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q has %d indices, want a positive multiple of 3", m.Name, len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q index %d = %d out of range (%d vertices)", m.Name, i, idx, n)
		}
	}
	return nil
}

// Interleave flattens the vertices into the layout expected by the vertex
// shader: position (location 0), normal (location 1), texcoord (location 2).
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.TexCoord.X(), v.TexCoord.Y(),
		)
	}
	return out
}

// Bounds returns the axis aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}

// ComputeNormals replaces every normal with the area weighted average of the
// face normals of the triangles sharing that vertex. Vertices that belong to
// no triangle, or only to degenerate ones, get +Y.
func (m *Mesh) ComputeNormals() {
	m.computeNormals(nil)
}

// fillNormals computes normals only for the vertices flagged in missing and
// keeps the others as loaded.
func (m *Mesh) fillNormals(missing []bool) {
	m.computeNormals(missing)
}

func (m *Mesh) computeNormals(only []bool) {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		p0, p1, p2 := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		// The cross product length is twice the triangle area.
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range m.Vertices {
		if only != nil && !only[i] {
			continue
		}
		if acc[i].Len() < 1e-12 {
			m.Vertices[i].Normal = mgl32.Vec3{0, 1, 0}
			continue
		}
		m.Vertices[i].Normal = acc[i].Normalize()
	}
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Name: m.Name}
	c.Vertices = append([]Vertex(nil), m.Vertices...)
	c.Indices = append([]uint32(nil), m.Indices...)
	return c
}

// flipWinding reverses the orientation of every triangle.
func (m *Mesh) flipWinding() {
	for t := 0; t+2 < len(m.Indices); t += 3 {
		m.Indices[t+1], m.Indices[t+2] = m.Indices[t+2], m.Indices[t+1]
	}
}
