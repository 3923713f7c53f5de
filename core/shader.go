package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// StageSource names a shader file and the stage it is compiled for.
type StageSource struct {
	File  string
	Stage Stage
}

// ShaderProgram compiles shader stages read from a file system and links
// them into a program. Relinking replaces, and deletes, the previous program.
type ShaderProgram struct {
	dev      Device
	sources  fs.FS
	program  ProgramHandle
	uniforms map[string]int32
}

// NewShaderProgram returns an empty program whose Compile reads from sources.
func NewShaderProgram(dev Device, sources fs.FS) *ShaderProgram {
	return &ShaderProgram{dev: dev, sources: sources}
}

// Program returns the linked program handle, or 0 if nothing has linked yet.
func (s *ShaderProgram) Program() ProgramHandle {
	return s.program
}

// Compile reads filename and compiles it as the given stage. On failure the
// stage object is released, the returned handle is 0 and the error is a
// *CompileError carrying the compiler log.
func (s *ShaderProgram) Compile(filename string, stage Stage) (ShaderHandle, error) {
	if !stage.valid() {
		return 0, &CompileError{File: filename, Stage: stage, Err: fmt.Errorf("unsupported shader stage %d", int(stage))}
	}
	src, err := fs.ReadFile(s.sources, filename)
	if err != nil {
		return 0, &CompileError{File: filename, Stage: stage, Err: err}
	}

	h := s.dev.CreateShader(stage)
	if h == 0 {
		return 0, &CompileError{File: filename, Stage: stage, Err: errors.New("could not create shader object")}
	}
	ok, log := s.dev.CompileShader(h, string(src))
	if !ok {
		s.dev.DeleteShader(h)
		if log == "" {
			log = "compiler reported failure without a log"
		}
		return 0, &CompileError{File: filename, Stage: stage, Log: log}
	}
	return h, nil
}

// Link attaches stages to a new program and links it. With deleteShaders
// the stages are detached and deleted whether or not linking succeeds, so
// the handles must not be used afterwards. On failure the error is a
// *LinkError and the previous program, if any, stays current.
func (s *ShaderProgram) Link(stages []ShaderHandle, deleteShaders bool) (ProgramHandle, error) {
	if deleteShaders {
		defer func() {
			for _, h := range stages {
				if h != 0 {
					s.dev.DeleteShader(h)
				}
			}
		}()
	}

	if len(stages) == 0 {
		return 0, &LinkError{Log: "no shader stages to link"}
	}
	for i, h := range stages {
		if h == 0 || !s.dev.IsShader(h) {
			return 0, &LinkError{Log: fmt.Sprintf("stage %d (handle %d) is not a compiled shader", i, h)}
		}
	}

	p := s.dev.CreateProgram()
	if p == 0 {
		return 0, &LinkError{Log: "could not create program object"}
	}
	for _, h := range stages {
		s.dev.AttachShader(p, h)
	}
	ok, log := s.dev.LinkProgram(p)
	if deleteShaders {
		for _, h := range stages {
			s.dev.DetachShader(p, h)
		}
	}
	if !ok {
		s.dev.DeleteProgram(p)
		return 0, &LinkError{Log: log}
	}

	if s.program != 0 {
		s.dev.DeleteProgram(s.program)
	}
	s.program = p
	s.uniforms = make(map[string]int32)
	slog.Debug("shader program linked", "program", p, "stages", len(stages))
	return p, nil
}

// Build compiles every source and links them, deleting the stages
// afterwards. If any stage fails to compile, stages already compiled are
// released before returning.
func (s *ShaderProgram) Build(sources ...StageSource) (ProgramHandle, error) {
	stages := make([]ShaderHandle, 0, len(sources))
	for _, src := range sources {
		h, err := s.Compile(src.File, src.Stage)
		if err != nil {
			for _, done := range stages {
				s.dev.DeleteShader(done)
			}
			return 0, err
		}
		stages = append(stages, h)
	}
	return s.Link(stages, true)
}

// Use makes the program current.
func (s *ShaderProgram) Use() {
	s.dev.UseProgram(s.program)
}

// SetMat4 sets a mat4 uniform on the current program. Unknown names are ignored.
func (s *ShaderProgram) SetMat4(name string, m mgl32.Mat4) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.UniformMat4(loc, m)
	}
}

// SetVec3 sets a vec3 uniform on the current program. Unknown names are ignored.
func (s *ShaderProgram) SetVec3(name string, v mgl32.Vec3) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.UniformVec3(loc, v)
	}
}

func (s *ShaderProgram) uniform(name string) int32 {
	if s.program == 0 {
		return -1
	}
	loc, ok := s.uniforms[name]
	if !ok {
		loc = s.dev.UniformLocation(s.program, name)
		s.uniforms[name] = loc
	}
	return loc
}

// Delete releases the program. The ShaderProgram can be linked again.
func (s *ShaderProgram) Delete() {
	if s.program != 0 {
		s.dev.DeleteProgram(s.program)
		s.program = 0
	}
	s.uniforms = nil
}
