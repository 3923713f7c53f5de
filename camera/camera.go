// Package camera implements an orbit camera driven by pointer drags, scroll
// zoom and elapsed time.
//
// The camera circles a target point. Dragging rotates the orientation about
// the camera's own up and right axes, zooming moves it along the view
// direction and releasing a drag leaves some angular velocity that Update
// damps out over time.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configure a Camera. Zero fields take the matching DefaultOptions value.
type Options struct {
	FOV         float32 // vertical field of view, degrees
	Near        float32
	Far         float32
	Distance    float32 // initial distance from the target
	MinDistance float32
	MaxDistance float32
	Sensitivity float32 // radians of rotation per pixel dragged
	Damping     float32 // inertia decay rate, 1/seconds
	PanSpeed    float32 // world units per pixel, per unit of distance
}

// DefaultOptions returns the settings used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		FOV:         45,
		Near:        0.1,
		Far:         100,
		Distance:    5,
		MinDistance: 0.5,
		MaxDistance: 50,
		Sensitivity: 0.005,
		Damping:     6,
		PanSpeed:    0.002,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	set := func(v *float32, def float32) {
		if *v <= 0 {
			*v = def
		}
	}
	set(&o.FOV, d.FOV)
	set(&o.Near, d.Near)
	set(&o.Far, d.Far)
	set(&o.Distance, d.Distance)
	set(&o.MinDistance, d.MinDistance)
	set(&o.MaxDistance, d.MaxDistance)
	set(&o.Sensitivity, d.Sensitivity)
	set(&o.Damping, d.Damping)
	set(&o.PanSpeed, d.PanSpeed)
	if o.MaxDistance < o.MinDistance {
		o.MaxDistance = o.MinDistance
	}
	return o
}

const (
	// MaxSpinRate caps the angular velocity a released drag leaves behind,
	// radians/second.
	MaxSpinRate = 2 * math.Pi

	// minRateInterval is the shortest frame time used to measure drag
	// velocity. Shorter frames, as with vsync off, would otherwise turn a
	// single pointer step into a fast spin.
	minRateInterval = float32(1.0 / 60)
)

// Point is a position in window coordinates, y growing downwards.
type Point = mgl32.Vec2

// dragSession exists only while a drag is in progress, so there is no start
// point to go stale once the drag ends.
type dragSession struct {
	last Point
	// rotation applied since the previous Update, radians
	yaw, pitch float32
}

// Camera is an orbit camera. It is not safe for concurrent use; drive it
// from the render thread.
type Camera struct {
	opts Options

	target      mgl32.Vec3
	orientation mgl32.Quat
	distance    float32
	position    mgl32.Vec3

	width, height float32
	view          mgl32.Mat4
	projection    mgl32.Mat4

	drag *dragSession
	// angular velocity around the camera up and right axes, radians/second
	yawRate, pitchRate float32
}

// New returns a camera for a viewport of the given size, placed on +Z
// looking at the origin.
func New(width, height float32, opts Options) *Camera {
	c := &Camera{opts: opts.withDefaults()}
	c.Reset()
	c.Resize(width, height)
	return c
}

// Reset restores the initial pose and stops any drag or inertia.
func (c *Camera) Reset() {
	c.target = mgl32.Vec3{}
	c.orientation = mgl32.QuatIdent()
	c.distance = clamp(c.opts.Distance, c.opts.MinDistance, c.opts.MaxDistance)
	c.drag = nil
	c.yawRate, c.pitchRate = 0, 0
	c.updateView()
}

// Resize updates the projection for a new viewport. Position and
// orientation are untouched.
func (c *Camera) Resize(width, height float32) {
	c.width, c.height = width, height
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = width / height
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.opts.FOV), aspect, c.opts.Near, c.opts.Far)
}

// Update advances inertia by dt seconds and recomputes the view matrix.
// Update(0) leaves the camera state unchanged.
func (c *Camera) Update(dt float32) {
	if dt <= 0 {
		c.updateView()
		return
	}

	if c.drag != nil {
		// Track how fast the pointer is turning the camera so that
		// releasing it can carry the motion on.
		interval := max(dt, minRateInterval)
		c.yawRate = clamp(c.drag.yaw/interval, -MaxSpinRate, MaxSpinRate)
		c.pitchRate = clamp(c.drag.pitch/interval, -MaxSpinRate, MaxSpinRate)
		c.drag.yaw, c.drag.pitch = 0, 0
	} else if c.yawRate != 0 || c.pitchRate != 0 {
		c.rotate(c.yawRate*dt, c.pitchRate*dt)
		decay := float32(math.Exp(float64(-c.opts.Damping * dt)))
		c.yawRate *= decay
		c.pitchRate *= decay
		if abs(c.yawRate) < 1e-4 && abs(c.pitchRate) < 1e-4 {
			c.yawRate, c.pitchRate = 0, 0
		}
	}
	c.updateView()
}

// StartDrag begins a drag at p. Any remaining inertia is cancelled.
func (c *Camera) StartDrag(p Point) {
	c.drag = &dragSession{last: p}
	c.yawRate, c.pitchRate = 0, 0
}

// DragTo rotates the camera by the pointer movement since the previous drag
// point and makes p the new reference. It returns false, changing nothing,
// when no drag is in progress.
func (c *Camera) DragTo(p Point) bool {
	if c.drag == nil {
		return false
	}
	delta := p.Sub(c.drag.last)
	c.drag.last = p

	yaw := -delta.X() * c.opts.Sensitivity
	pitch := -delta.Y() * c.opts.Sensitivity
	c.drag.yaw += yaw
	c.drag.pitch += pitch
	c.rotate(yaw, pitch)
	c.updateView()
	return true
}

// EndDrag finishes the current drag. The velocity measured by the last
// Update keeps the camera turning until damping stops it.
func (c *Camera) EndDrag() {
	c.drag = nil
}

// Dragging reports whether a drag is in progress.
func (c *Camera) Dragging() bool {
	return c.drag != nil
}

// Zoom moves the camera amount units towards the target (negative moves
// away), keeping the distance within [MinDistance, MaxDistance].
func (c *Camera) Zoom(amount float32) {
	c.distance = clamp(c.distance-amount, c.opts.MinDistance, c.opts.MaxDistance)
	c.updateView()
}

// Pan slides the camera and its target across the view plane by a pointer
// delta in pixels.
func (c *Camera) Pan(dx, dy float32) {
	scale := c.opts.PanSpeed * c.distance
	right := c.orientation.Rotate(mgl32.Vec3{1, 0, 0})
	up := c.orientation.Rotate(mgl32.Vec3{0, 1, 0})
	c.target = c.target.Add(right.Mul(-dx * scale)).Add(up.Mul(dy * scale))
	c.updateView()
}

// rotate turns the orientation by yaw about its local up axis and by pitch
// about its local right axis, then renormalises it.
func (c *Camera) rotate(yaw, pitch float32) {
	q := c.orientation.
		Mul(mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	c.orientation = q.Normalize()
}

func (c *Camera) updateView() {
	c.position = c.target.Add(c.orientation.Rotate(mgl32.Vec3{0, 0, c.distance}))
	// Inverse of translate(position) * rotate(orientation).
	c.view = c.orientation.Conjugate().Mat4().Mul4(
		mgl32.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z()))
}

func (c *Camera) Position() mgl32.Vec3         { return c.position }
func (c *Camera) Orientation() mgl32.Quat      { return c.orientation }
func (c *Camera) Target() mgl32.Vec3           { return c.target }
func (c *Camera) Distance() float32            { return c.distance }
func (c *Camera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }
func (c *Camera) Options() Options             { return c.opts }

func clamp(v, lo, hi float32) float32 {
	return mgl32.Clamp(v, lo, hi)
}

func abs(v float32) float32 {
	return mgl32.Abs(v)
}
