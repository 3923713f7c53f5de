package mesh

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// fromGLTF merges every triangle primitive of every mesh in doc into one
// Mesh. Node transforms are not applied.
func fromGLTF(doc *gltf.Document, name string) (*Mesh, error) {
	m := &Mesh{Name: name}
	var missing []bool
	anyMissing := false

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			acr, err := accessor(doc, int(posIdx))
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
			}
			positions, err := modeler.ReadPosition(doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
			}

			var normals [][3]float32
			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				if acr, err = accessor(doc, int(idx)); err == nil {
					normals, err = modeler.ReadNormal(doc, acr, nil)
				}
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d normals: %w", mi, pi, err)
				}
			}
			if len(normals) != len(positions) {
				anyMissing = true
				normals = nil
			}

			var uvs [][2]float32
			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				if acr, err = accessor(doc, int(idx)); err == nil {
					uvs, err = modeler.ReadTextureCoord(doc, acr, nil)
				}
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d texcoords: %w", mi, pi, err)
				}
			}
			if len(uvs) != len(positions) {
				uvs = nil
			}

			var indices []uint32
			if prim.Indices != nil {
				if acr, err = accessor(doc, int(*prim.Indices)); err == nil {
					indices, err = modeler.ReadIndices(doc, acr, nil)
				}
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d indices: %w", mi, pi, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			base := uint32(len(m.Vertices))
			for i, p := range positions {
				var v Vertex
				v.Position = p
				if normals != nil {
					v.Normal = normals[i]
				}
				if uvs != nil {
					v.TexCoord = uvs[i]
				}
				m.Vertices = append(m.Vertices, v)
				missing = append(missing, normals == nil)
			}
			for i, idx := range indices {
				if idx >= uint32(len(positions)) {
					return nil, fmt.Errorf("mesh %d primitive %d: index %d at position %d out of range (%d vertices)",
						mi, pi, idx, i, len(positions))
				}
				m.Indices = append(m.Indices, base+idx)
			}
		}
	}

	if len(m.Vertices) == 0 {
		return nil, errors.New("document contains no triangle primitives")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if anyMissing {
		m.fillNormals(missing)
	}
	return m, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (%d defined)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}
