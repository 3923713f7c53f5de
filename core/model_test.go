package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toxichemicals/GO/meshviewer/mesh"
)

func TestCubeModelUploadAndRender(t *testing.T) {
	dev := newFakeDevice()
	m, err := NewCubeModel(dev, 1, false)
	require.NoError(t, err)

	require.Len(t, dev.uploads, 1)
	assert.Len(t, dev.uploads[0], 8*mesh.FloatsPerVertex)
	assert.Equal(t, 8, len(m.Mesh().Vertices))

	m.Render()
	require.Len(t, dev.draws, 1)
	assert.Equal(t, int32(36), dev.draws[0].Count)

	m.Release()
	assert.Empty(t, dev.buffers)
	m.Render()
	assert.Len(t, dev.draws, 1, "render after release should draw nothing")
	m.Release()
}

func TestModelMeshIsACopy(t *testing.T) {
	src, err := mesh.NewCube(1, false)
	require.NoError(t, err)
	m, err := NewModel(newFakeDevice(), src)
	require.NoError(t, err)

	src.Indices[0] = 7
	got := m.Mesh()
	assert.Equal(t, uint32(1), got.Indices[0], "changes to the source mesh do not reach the model")

	got.Vertices[0].Position[0] = 42
	got.Indices = got.Indices[:3]
	again := m.Mesh()
	assert.NotEqual(t, float32(42), again.Vertices[0].Position[0])
	assert.Len(t, again.Indices, 36)
}

func TestTorusModel(t *testing.T) {
	dev := newFakeDevice()
	m, err := NewTorusModel(dev, 1, 0.25)
	require.NoError(t, err)
	m.Render()
	assert.Equal(t, int32(mesh.TorusRingSegments*mesh.TorusPipeSegments*6), dev.draws[0].Count)
}

func TestModelInvalidGeometry(t *testing.T) {
	dev := newFakeDevice()

	m, err := NewCubeModel(dev, 0, false)
	assert.Nil(t, m)
	var geomErr *mesh.InvalidGeometryError
	assert.True(t, errors.As(err, &geomErr))

	m, err = NewTorusModel(dev, 1, 2)
	assert.Nil(t, m)
	assert.True(t, errors.As(err, &geomErr))

	assert.Empty(t, dev.uploads)
}

func TestModelUploadFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failUpload = true
	m, err := NewCubeModel(dev, 1, false)
	assert.Nil(t, m)
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(p, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))

	dev := newFakeDevice()
	m, err := LoadModel(context.Background(), dev, p)
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Mesh().Name)
	m.Render()
	assert.Equal(t, int32(3), dev.draws[0].Count)

	_, err = LoadModel(context.Background(), dev, filepath.Join(dir, "missing.obj"))
	var loadErr *mesh.LoadError
	assert.True(t, errors.As(err, &loadErr))

	dev.failUpload = true
	_, err = LoadModel(context.Background(), dev, p)
	assert.True(t, errors.As(err, &loadErr))
}
