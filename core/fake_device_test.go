package core

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeShader struct {
	stage    Stage
	source   string
	compiled bool
}

type fakeProgram struct {
	attached map[ShaderHandle]bool
	linked   bool
}

// fakeDevice imitates enough of a GL driver to exercise ShaderProgram and
// Model. A shader compiles when it declares main and its braces balance; a
// program links when it has exactly one compiled vertex and fragment stage.
type fakeDevice struct {
	next     uint32
	shaders  map[ShaderHandle]*fakeShader
	programs map[ProgramHandle]*fakeProgram
	buffers  map[uint32]Buffers
	uploads  [][]float32
	draws    []Buffers
	used     ProgramHandle

	locations    map[string]int32
	lookups      int
	uniformCalls map[int32]any

	failUpload bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:      make(map[ShaderHandle]*fakeShader),
		programs:     make(map[ProgramHandle]*fakeProgram),
		buffers:      make(map[uint32]Buffers),
		locations:    map[string]int32{"model": 0, "view": 1, "projection": 2, "lightDir": 3},
		uniformCalls: make(map[int32]any),
	}
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) CreateShader(stage Stage) ShaderHandle {
	h := ShaderHandle(d.id())
	d.shaders[h] = &fakeShader{stage: stage}
	return h
}

func (d *fakeDevice) CompileShader(h ShaderHandle, source string) (bool, string) {
	s, ok := d.shaders[h]
	if !ok {
		return false, "invalid shader handle"
	}
	s.source = source
	if !strings.Contains(source, "void main") {
		return false, "0:1(1): error: function `main' is not defined"
	}
	if strings.Count(source, "{") != strings.Count(source, "}") {
		lines := strings.Count(source, "\n") + 1
		return false, fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", lines)
	}
	s.compiled = true
	return true, ""
}

func (d *fakeDevice) DeleteShader(h ShaderHandle) {
	delete(d.shaders, h)
}

func (d *fakeDevice) IsShader(h ShaderHandle) bool {
	_, ok := d.shaders[h]
	return ok
}

func (d *fakeDevice) CreateProgram() ProgramHandle {
	p := ProgramHandle(d.id())
	d.programs[p] = &fakeProgram{attached: make(map[ShaderHandle]bool)}
	return p
}

func (d *fakeDevice) AttachShader(p ProgramHandle, h ShaderHandle) {
	d.programs[p].attached[h] = true
}

func (d *fakeDevice) DetachShader(p ProgramHandle, h ShaderHandle) {
	delete(d.programs[p].attached, h)
}

func (d *fakeDevice) LinkProgram(p ProgramHandle) (bool, string) {
	prog := d.programs[p]
	count := map[Stage]int{}
	for h := range prog.attached {
		s, ok := d.shaders[h]
		if !ok || !s.compiled {
			return false, "error: attached shader is not compiled"
		}
		count[s.stage]++
	}
	if count[VertexStage] != 1 || count[FragmentStage] != 1 {
		return false, "error: program needs exactly one vertex and one fragment stage"
	}
	prog.linked = true
	return true, ""
}

func (d *fakeDevice) DeleteProgram(p ProgramHandle) {
	delete(d.programs, p)
}

func (d *fakeDevice) UseProgram(p ProgramHandle) {
	d.used = p
}

func (d *fakeDevice) UniformLocation(p ProgramHandle, name string) int32 {
	d.lookups++
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) UniformMat4(location int32, m mgl32.Mat4) {
	d.uniformCalls[location] = m
}

func (d *fakeDevice) UniformVec3(location int32, v mgl32.Vec3) {
	d.uniformCalls[location] = v
}

func (d *fakeDevice) UploadMesh(vertices []float32, indices []uint32) Buffers {
	if d.failUpload {
		return Buffers{}
	}
	b := Buffers{VAO: d.id(), VBO: d.id(), EBO: d.id(), Count: int32(len(indices))}
	d.buffers[b.VAO] = b
	d.uploads = append(d.uploads, vertices)
	return b
}

func (d *fakeDevice) DrawIndexed(b Buffers) {
	d.draws = append(d.draws, b)
}

func (d *fakeDevice) DeleteBuffers(b Buffers) {
	delete(d.buffers, b.VAO)
}
