// Package config loads viewer settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/toxichemicals/GO/meshviewer/camera"
)

// Shapes accepted by Scene.Shape.
const (
	ShapeCube  = "cube"
	ShapeTorus = "torus"
	ShapeURL   = "url"
)

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type Camera struct {
	FOV         float32 `toml:"fov"`
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`
	Distance    float32 `toml:"distance"`
	MinDistance float32 `toml:"min_distance"`
	MaxDistance float32 `toml:"max_distance"`
	Sensitivity float32 `toml:"sensitivity"`
	Damping     float32 `toml:"damping"`
	PanSpeed    float32 `toml:"pan_speed"`
	ZoomStep    float32 `toml:"zoom_step"` // distance per scroll notch
}

// Options converts the section to camera options.
func (c Camera) Options() camera.Options {
	return camera.Options{
		FOV:         c.FOV,
		Near:        c.Near,
		Far:         c.Far,
		Distance:    c.Distance,
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		Sensitivity: c.Sensitivity,
		Damping:     c.Damping,
		PanSpeed:    c.PanSpeed,
	}
}

type Scene struct {
	Shape         string  `toml:"shape"`
	Radius        float32 `toml:"radius"`
	InwardNormals bool    `toml:"inward_normals"`
	RingRadius    float32 `toml:"ring_radius"`
	PipeRadius    float32 `toml:"pipe_radius"`
	URL           string  `toml:"url"`
}

type Shaders struct {
	Dir      string `toml:"dir"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	Watch    bool   `toml:"watch"`
}

// Config is the full viewer configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Camera  Camera  `toml:"camera"`
	Scene   Scene   `toml:"scene"`
	Shaders Shaders `toml:"shaders"`
}

// Default returns the built in configuration.
func Default() Config {
	opts := camera.DefaultOptions()
	return Config{
		Window: Window{Width: 1024, Height: 768, Title: "meshviewer", VSync: true},
		Camera: Camera{
			FOV:         opts.FOV,
			Near:        opts.Near,
			Far:         opts.Far,
			Distance:    opts.Distance,
			MinDistance: opts.MinDistance,
			MaxDistance: opts.MaxDistance,
			Sensitivity: opts.Sensitivity,
			Damping:     opts.Damping,
			PanSpeed:    opts.PanSpeed,
			ZoomStep:    0.5,
		},
		Scene: Scene{
			Shape:      ShapeTorus,
			Radius:     1,
			RingRadius: 1,
			PipeRadius: 0.35,
		},
		Shaders: Shaders{Dir: "shaders", Vertex: "basic.vert", Fragment: "basic.frag", Watch: true},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in less obvious ways.
// Geometry radii are left to the mesh generators.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes near=%v far=%v: need 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	// Zero selects the camera default, negative is rejected.
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"fov", c.Camera.FOV},
		{"distance", c.Camera.Distance},
		{"min_distance", c.Camera.MinDistance},
		{"max_distance", c.Camera.MaxDistance},
		{"sensitivity", c.Camera.Sensitivity},
		{"damping", c.Camera.Damping},
		{"pan_speed", c.Camera.PanSpeed},
		{"zoom_step", c.Camera.ZoomStep},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("camera %s %v must not be negative", f.name, f.value))
		}
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		errs = append(errs, fmt.Errorf("camera min_distance %v exceeds max_distance %v", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Camera.MaxDistance >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera max_distance %v must be inside the far plane %v", c.Camera.MaxDistance, c.Camera.Far))
	}
	switch c.Scene.Shape {
	case ShapeCube, ShapeTorus:
	case ShapeURL:
		if c.Scene.URL == "" {
			errs = append(errs, errors.New("scene shape is url but no url is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown scene shape %q", c.Scene.Shape))
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("both vertex and fragment shaders must be named"))
	}
	return errors.Join(errs...)
}
