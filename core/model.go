package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/toxichemicals/GO/meshviewer/mesh"
)

// Model is a mesh uploaded to GPU buffers.
type Model struct {
	dev  Device
	mesh *mesh.Mesh
	buf  Buffers
}

// NewModel validates m and uploads it. The model keeps its own copy, so later
// changes to m do not affect it.
func NewModel(dev Device, m *mesh.Mesh) (*Model, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	buf := dev.UploadMesh(m.Interleave(), m.Indices)
	if buf.VAO == 0 {
		return nil, fmt.Errorf("failed to upload mesh %q", m.Name)
	}
	return &Model{dev: dev, mesh: m.Clone(), buf: buf}, nil
}

// NewCubeModel builds and uploads a cube, see mesh.NewCube.
func NewCubeModel(dev Device, radius float32, inwardNormals bool) (*Model, error) {
	m, err := mesh.NewCube(radius, inwardNormals)
	if err != nil {
		return nil, err
	}
	return NewModel(dev, m)
}

// NewTorusModel builds and uploads a torus, see mesh.NewTorus.
func NewTorusModel(dev Device, ringRadius, pipeRadius float32) (*Model, error) {
	m, err := mesh.NewTorus(ringRadius, pipeRadius)
	if err != nil {
		return nil, err
	}
	return NewModel(dev, m)
}

// LoadModel loads the mesh at rawURL and uploads it. Failures are *mesh.LoadError.
func LoadModel(ctx context.Context, dev Device, rawURL string) (*Model, error) {
	m, err := mesh.Load(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	model, err := NewModel(dev, m)
	if err != nil {
		var loadErr *mesh.LoadError
		if !errors.As(err, &loadErr) {
			err = &mesh.LoadError{URL: rawURL, Err: err}
		}
		return nil, err
	}
	return model, nil
}

// Mesh returns a copy of the geometry the model was built from.
func (m *Model) Mesh() *mesh.Mesh {
	return m.mesh.Clone()
}

// Render draws the model with whatever program is current. It does nothing
// after Release.
func (m *Model) Render() {
	if m.buf.VAO == 0 {
		return
	}
	m.dev.DrawIndexed(m.buf)
}

// Release deletes the GPU buffers. Calling it again is harmless.
func (m *Model) Release() {
	if m.buf.VAO == 0 {
		return
	}
	m.dev.DeleteBuffers(m.buf)
	m.buf = Buffers{}
}
