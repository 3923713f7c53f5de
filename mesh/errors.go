package mesh

import "fmt"

// InvalidGeometryError reports a generator parameter outside its valid range.
type InvalidGeometryError struct {
	Shape  string
	Param  string
	Value  float32
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid %s %s %v: %s", e.Shape, e.Param, e.Value, e.Reason)
}

// LoadError reports a mesh resource that is missing, unreadable or malformed.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load mesh %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
