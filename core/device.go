// Package core holds the GPU-facing pieces of the viewer: shader programs
// and renderable models. All GL traffic goes through a Device so the logic
// here can run without a GL context.
package core

import "github.com/go-gl/mathgl/mgl32"

// ShaderHandle names one compiled shader stage. 0 is never a valid stage.
type ShaderHandle uint32

// ProgramHandle names a linked program. 0 is never a valid program.
type ProgramHandle uint32

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
	GeometryStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	case GeometryStage:
		return "geometry"
	}
	return "unknown"
}

func (s Stage) valid() bool {
	return s >= VertexStage && s <= GeometryStage
}

// Buffers are the GPU objects holding one uploaded mesh.
type Buffers struct {
	VAO, VBO, EBO uint32
	Count         int32
}

// Device is the subset of the GL API used by this package. Every method
// must be called on the thread that owns the GL context.
type Device interface {
	CreateShader(stage Stage) ShaderHandle
	// CompileShader sets the source of h and compiles it, returning the
	// compile status and info log.
	CompileShader(h ShaderHandle, source string) (ok bool, log string)
	DeleteShader(h ShaderHandle)
	IsShader(h ShaderHandle) bool

	CreateProgram() ProgramHandle
	AttachShader(p ProgramHandle, h ShaderHandle)
	DetachShader(p ProgramHandle, h ShaderHandle)
	// LinkProgram links p, returning the link status and info log.
	LinkProgram(p ProgramHandle) (ok bool, log string)
	DeleteProgram(p ProgramHandle)
	UseProgram(p ProgramHandle)
	UniformLocation(p ProgramHandle, name string) int32
	UniformMat4(location int32, m mgl32.Mat4)
	UniformVec3(location int32, v mgl32.Vec3)

	// UploadMesh creates a vertex array with interleaved position, normal
	// and texcoord attributes at locations 0, 1 and 2.
	UploadMesh(vertices []float32, indices []uint32) Buffers
	DrawIndexed(b Buffers)
	DeleteBuffers(b Buffers)
}
