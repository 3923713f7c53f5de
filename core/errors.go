package core

import "fmt"

// CompileError is returned when a shader stage fails to compile, or its
// source cannot be read. Log holds the compiler output.
type CompileError struct {
	File  string
	Stage Stage
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to compile %s shader %s: %v", e.Stage, e.File, e.Err)
	}
	return fmt.Sprintf("failed to compile %s shader %s:\n%s", e.Stage, e.File, e.Log)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// LinkError is returned when a program fails to link. Log holds the linker output.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program:\n%s", e.Log)
}
