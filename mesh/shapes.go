package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Torus tessellation used by NewTorus.
const (
	TorusRingSegments = 48
	TorusPipeSegments = 24
)

// cubeFaces lists the two triangles of every face, counter clockwise when
// seen from outside. Corner i sits at (±r, ±r, ±r) with bit 0 selecting +x,
// bit 1 +y and bit 2 +z.
var cubeFaces = [36]uint32{
	1, 3, 7, 1, 7, 5, // +X
	0, 4, 6, 0, 6, 2, // -X
	2, 6, 7, 2, 7, 3, // +Y
	0, 1, 5, 0, 5, 4, // -Y
	4, 5, 7, 4, 7, 6, // +Z
	0, 2, 3, 0, 3, 1, // -Z
}

// NewCube returns an 8 vertex cube whose corners lie at (±radius, ±radius,
// ±radius). Each corner normal points along its diagonal. With inwardNormals
// the normals are negated and the winding reversed so the cube is meant to
// be viewed from inside.
func NewCube(radius float32, inwardNormals bool) (*Mesh, error) {
	if err := checkRadius("cube", "radius", radius); err != nil {
		return nil, err
	}

	m := &Mesh{
		Name:     "cube",
		Vertices: make([]Vertex, 8),
		Indices:  append([]uint32(nil), cubeFaces[:]...),
	}
	for i := range m.Vertices {
		dir := mgl32.Vec3{-1, -1, -1}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				dir[axis] = 1
			}
		}
		normal := dir.Normalize()
		if inwardNormals {
			normal = normal.Mul(-1)
		}
		m.Vertices[i] = Vertex{
			Position: dir.Mul(radius),
			Normal:   normal,
			TexCoord: mgl32.Vec2{(dir.X() + 1) / 2, (dir.Y() + 1) / 2},
		}
	}
	if inwardNormals {
		m.flipWinding()
	}
	return m, nil
}

// NewTorus sweeps a circle of pipeRadius around a ring of ringRadius lying in
// the XZ plane, centred on the origin with Y as its axis.
func NewTorus(ringRadius, pipeRadius float32) (*Mesh, error) {
	return NewTorusSegments(ringRadius, pipeRadius, TorusRingSegments, TorusPipeSegments)
}

// NewTorusSegments is NewTorus with an explicit tessellation. Both segment
// counts must be at least 3.
func NewTorusSegments(ringRadius, pipeRadius float32, ringSegs, pipeSegs int) (*Mesh, error) {
	if err := checkRadius("torus", "ring radius", ringRadius); err != nil {
		return nil, err
	}
	if err := checkRadius("torus", "pipe radius", pipeRadius); err != nil {
		return nil, err
	}
	if pipeRadius >= ringRadius {
		return nil, &InvalidGeometryError{
			Shape:  "torus",
			Param:  "pipe radius",
			Value:  pipeRadius,
			Reason: "must be smaller than the ring radius",
		}
	}
	if ringSegs < 3 || pipeSegs < 3 {
		return nil, &InvalidGeometryError{
			Shape:  "torus",
			Param:  "segments",
			Value:  float32(min(ringSegs, pipeSegs)),
			Reason: "need at least 3 segments around ring and pipe",
		}
	}

	m := &Mesh{
		Name:     "torus",
		Vertices: make([]Vertex, 0, (ringSegs+1)*(pipeSegs+1)),
		Indices:  make([]uint32, 0, ringSegs*pipeSegs*6),
	}
	R, p := float64(ringRadius), float64(pipeRadius)
	for j := 0; j <= ringSegs; j++ {
		u := float64(j) / float64(ringSegs) * 2 * math.Pi
		cu, su := math.Cos(u), math.Sin(u)
		for i := 0; i <= pipeSegs; i++ {
			v := float64(i) / float64(pipeSegs) * 2 * math.Pi
			cv, sv := math.Cos(v), math.Sin(v)
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{float32((R + p*cv) * cu), float32(p * sv), float32((R + p*cv) * su)},
				Normal:   mgl32.Vec3{float32(cv * cu), float32(sv), float32(cv * su)},
				TexCoord: mgl32.Vec2{float32(j) / float32(ringSegs), float32(i) / float32(pipeSegs)},
			})
		}
	}

	stride := uint32(pipeSegs + 1)
	for j := uint32(0); j < uint32(ringSegs); j++ {
		for i := uint32(0); i < uint32(pipeSegs); i++ {
			a := j*stride + i
			b := a + 1
			c := a + stride
			d := c + 1
			m.Indices = append(m.Indices, a, b, c, b, d, c)
		}
	}
	return m, nil
}

func checkRadius(shape, param string, r float32) error {
	v := float64(r)
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &InvalidGeometryError{Shape: shape, Param: param, Value: r, Reason: "must be finite"}
	case r <= 0:
		return &InvalidGeometryError{Shape: shape, Param: param, Value: r, Reason: "must be positive"}
	}
	return nil
}
