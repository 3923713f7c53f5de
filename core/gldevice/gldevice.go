// Package gldevice implements core.Device on top of OpenGL 4.1 core profile,
// the newest version available on macOS.
package gldevice

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/meshviewer/core"
)

// Device issues GL calls on the current context.
type Device struct{}

var _ core.Device = (*Device)(nil)

// New loads the GL function pointers. A context must be current on the
// calling thread.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Device{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Viewport sets the viewport and enables depth testing.
func (d *Device) Viewport(width, height int) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the color and depth buffers.
func (d *Device) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetCulling toggles back face culling.
func (d *Device) SetCulling(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// glStage maps a stage to its GL enum, or 0 for an unknown stage.
func glStage(s core.Stage) uint32 {
	switch s {
	case core.VertexStage:
		return gl.VERTEX_SHADER
	case core.FragmentStage:
		return gl.FRAGMENT_SHADER
	case core.GeometryStage:
		return gl.GEOMETRY_SHADER
	default:
		return 0
	}
}

// CreateShader returns 0 for an unknown stage instead of guessing one.
func (d *Device) CreateShader(stage core.Stage) core.ShaderHandle {
	kind := glStage(stage)
	if kind == 0 {
		return 0
	}
	return core.ShaderHandle(gl.CreateShader(kind))
}

func (d *Device) CompileShader(h core.ShaderHandle, source string) (bool, string) {
	shader := uint32(h)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return false, strings.TrimRight(log, "\x00")
	}
	return true, ""
}

func (d *Device) DeleteShader(h core.ShaderHandle) {
	gl.DeleteShader(uint32(h))
}

func (d *Device) IsShader(h core.ShaderHandle) bool {
	return gl.IsShader(uint32(h))
}

func (d *Device) CreateProgram() core.ProgramHandle {
	return core.ProgramHandle(gl.CreateProgram())
}

func (d *Device) AttachShader(p core.ProgramHandle, h core.ShaderHandle) {
	gl.AttachShader(uint32(p), uint32(h))
}

func (d *Device) DetachShader(p core.ProgramHandle, h core.ShaderHandle) {
	gl.DetachShader(uint32(p), uint32(h))
}

func (d *Device) LinkProgram(p core.ProgramHandle) (bool, string) {
	program := uint32(p)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return false, strings.TrimRight(log, "\x00")
	}
	return true, ""
}

func (d *Device) DeleteProgram(p core.ProgramHandle) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UseProgram(p core.ProgramHandle) {
	gl.UseProgram(uint32(p))
}

func (d *Device) UniformLocation(p core.ProgramHandle, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

const vertexStride = 8 * 4 // 3 position + 3 normal + 2 texcoord floats

func (d *Device) UploadMesh(vertices []float32, indices []uint32) core.Buffers {
	var b core.Buffers
	if len(vertices) == 0 || len(indices) == 0 {
		return b
	}

	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attribute (layout location 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Normal attribute (layout location 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	// Texture coordinate attribute (layout location 2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	b.Count = int32(len(indices))
	return b
}

func (d *Device) DrawIndexed(b core.Buffers) {
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, b.Count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (d *Device) DeleteBuffers(b core.Buffers) {
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteBuffers(1, &b.EBO)
}
