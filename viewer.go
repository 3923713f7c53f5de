package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/toxichemicals/GO/meshviewer/camera"
	"github.com/toxichemicals/GO/meshviewer/config"
	"github.com/toxichemicals/GO/meshviewer/core"
	"github.com/toxichemicals/GO/meshviewer/core/gldevice"
)

var lightDir = mgl32.Vec3{-0.4, -1.0, -0.6}

// Viewer owns the window, GL device and everything drawn into it.
type Viewer struct {
	cfg    config.Config
	window *glfw.Window
	dev    *gldevice.Device

	camera  *camera.Camera
	shader  *core.ShaderProgram
	model   *core.Model
	watcher *core.Watcher

	// Window dimensions
	width, height int

	lastFrameTime time.Time

	// FPS Counter state
	fpsFrames         int
	fpsLastUpdateTime time.Time

	vsyncEnabled bool
	culling      bool

	// Right button panning state
	panning    bool
	lastCursor mgl32.Vec2
}

// NewViewer creates a viewer; nothing is initialised until Init.
func NewViewer(cfg config.Config) *Viewer {
	return &Viewer{
		cfg:          cfg,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
		vsyncEnabled: cfg.Window.VSync,
	}
}

// Init opens the window, builds the shader program and the model. It must
// run on the main OS thread.
func (v *Viewer) Init(ctx context.Context) error {
	if err := v.initializeWindow(); err != nil {
		return fmt.Errorf("window initialization failed: %w", err)
	}

	dev, err := gldevice.New()
	if err != nil {
		return err
	}
	v.dev = dev
	fbw, fbh := v.window.GetFramebufferSize()
	v.dev.Viewport(fbw, fbh)
	slog.Info("OpenGL ready", "version", v.dev.Version())

	if err := v.setupShaders(); err != nil {
		return fmt.Errorf("shader setup failed: %w", err)
	}
	if err := v.setupModel(ctx); err != nil {
		return fmt.Errorf("model setup failed: %w", err)
	}

	v.camera = camera.New(float32(v.width), float32(v.height), v.cfg.Camera.Options())

	if v.cfg.Shaders.Watch {
		w, err := core.NewWatcher(v.shaderPaths()...)
		if err != nil {
			// Hot reload is a convenience; keep running without it.
			slog.Warn("shader hot reload disabled", "err", err)
		} else {
			v.watcher = w
		}
	}

	v.lastFrameTime = time.Now()
	v.fpsLastUpdateTime = v.lastFrameTime
	return nil
}

// initializeWindow handles GLFW initialization, window creation and input callbacks.
func (v *Viewer) initializeWindow() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(v.width, v.height, v.cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	v.window = window
	v.window.MakeContextCurrent()
	v.applyVSync()

	v.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.dev.Viewport(width, height)
	})
	v.window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		v.width, v.height = width, height
		v.camera.Resize(float32(width), float32(height))
	})
	v.window.SetMouseButtonCallback(v.onMouseButton)
	v.window.SetCursorPosCallback(v.onCursorPos)
	v.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		v.camera.Zoom(float32(yoff) * v.cfg.Camera.ZoomStep)
	})
	v.window.SetKeyCallback(v.onKey)
	return nil
}

func (v *Viewer) cursor() mgl32.Vec2 {
	x, y := v.window.GetCursorPos()
	return mgl32.Vec2{float32(x), float32(y)}
}

func (v *Viewer) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	switch button {
	case glfw.MouseButtonLeft:
		if action == glfw.Press {
			v.camera.StartDrag(v.cursor())
		} else if action == glfw.Release {
			v.camera.EndDrag()
		}
	case glfw.MouseButtonRight:
		v.panning = action == glfw.Press
		v.lastCursor = v.cursor()
	}
}

func (v *Viewer) onCursorPos(_ *glfw.Window, xpos, ypos float64) {
	p := mgl32.Vec2{float32(xpos), float32(ypos)}
	if v.camera.Dragging() {
		v.camera.DragTo(p)
	}
	if v.panning {
		d := p.Sub(v.lastCursor)
		v.camera.Pan(d.X(), d.Y())
		v.lastCursor = p
	}
}

func (v *Viewer) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
	case glfw.KeyR:
		v.camera.Reset()
		slog.Info("camera reset")
	case glfw.KeyC:
		v.culling = !v.culling
		v.dev.SetCulling(v.culling)
		slog.Info("back face culling", "enabled", v.culling)
	case glfw.KeyV:
		v.vsyncEnabled = !v.vsyncEnabled
		v.applyVSync()
		slog.Info("vsync", "enabled", v.vsyncEnabled)
	}
}

func (v *Viewer) applyVSync() {
	if v.vsyncEnabled {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (v *Viewer) shaderPaths() []string {
	return []string{
		filepath.Join(v.cfg.Shaders.Dir, v.cfg.Shaders.Vertex),
		filepath.Join(v.cfg.Shaders.Dir, v.cfg.Shaders.Fragment),
	}
}

func (v *Viewer) buildShaders() error {
	_, err := v.shader.Build(
		core.StageSource{File: v.cfg.Shaders.Vertex, Stage: core.VertexStage},
		core.StageSource{File: v.cfg.Shaders.Fragment, Stage: core.FragmentStage},
	)
	return err
}

// setupShaders compiles the configured vertex and fragment shaders.
func (v *Viewer) setupShaders() error {
	v.shader = core.NewShaderProgram(v.dev, os.DirFS(v.cfg.Shaders.Dir))
	return v.buildShaders()
}

// setupModel builds or loads the configured scene model.
func (v *Viewer) setupModel(ctx context.Context) error {
	s := v.cfg.Scene
	var (
		m   *core.Model
		err error
	)
	switch s.Shape {
	case config.ShapeCube:
		m, err = core.NewCubeModel(v.dev, s.Radius, s.InwardNormals)
	case config.ShapeTorus:
		m, err = core.NewTorusModel(v.dev, s.RingRadius, s.PipeRadius)
	case config.ShapeURL:
		m, err = core.LoadModel(ctx, v.dev, s.URL)
	default:
		err = fmt.Errorf("unknown shape %q", s.Shape)
	}
	if err != nil {
		return err
	}
	v.model = m
	geom := m.Mesh()
	slog.Info("model ready", "name", geom.Name,
		"vertices", len(geom.Vertices), "triangles", geom.TriangleCount())
	return nil
}

// Run drives the render loop until the window closes or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) {
	slog.Info("viewer initialized, starting main loop")
	for !v.window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		glfw.PollEvents()

		currentTime := time.Now()
		deltaTime := float32(currentTime.Sub(v.lastFrameTime).Seconds())
		v.lastFrameTime = currentTime

		if v.watcher != nil && v.watcher.Changed() {
			if err := v.buildShaders(); err != nil {
				slog.Error("shader reload failed, keeping previous program", "err", err)
			} else {
				slog.Info("shaders reloaded")
			}
		}

		v.camera.Update(deltaTime)
		v.renderScene()
		v.updateAndDisplayFPS()
	}
	slog.Info("viewer shutting down")
}

// renderScene clears buffers, draws the model and swaps buffers.
func (v *Viewer) renderScene() {
	v.dev.Clear(0.2, 0.3, 0.3)

	v.shader.Use()
	v.shader.SetMat4("projection", v.camera.ProjectionMatrix())
	v.shader.SetMat4("view", v.camera.ViewMatrix())
	v.shader.SetMat4("model", mgl32.Ident4())
	v.shader.SetVec3("lightDir", lightDir)
	v.shader.SetVec3("viewPos", v.camera.Position())
	v.model.Render()

	v.window.SwapBuffers()
}

// updateAndDisplayFPS calculates and displays FPS in the window title.
func (v *Viewer) updateAndDisplayFPS() {
	v.fpsFrames++
	if elapsed := time.Since(v.fpsLastUpdateTime); elapsed >= time.Second {
		fps := float64(v.fpsFrames) / elapsed.Seconds()
		v.window.SetTitle(fmt.Sprintf("%s | FPS: %.2f", v.cfg.Window.Title, fps))
		v.fpsFrames = 0
		v.fpsLastUpdateTime = time.Now()
	}
}

// Shutdown releases GPU resources and terminates GLFW. Safe after a failed Init.
func (v *Viewer) Shutdown() {
	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.model != nil {
		v.model.Release()
	}
	if v.shader != nil {
		v.shader.Delete()
	}
	if v.window != nil {
		v.window.Destroy()
		glfw.Terminate()
	}
}
