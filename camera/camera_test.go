package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func newTestCamera() *Camera {
	return New(800, 600, Options{})
}

type snapshot struct {
	position    mgl32.Vec3
	orientation mgl32.Quat
	view        mgl32.Mat4
	distance    float32
	dragging    bool
}

func snap(c *Camera) snapshot {
	return snapshot{c.Position(), c.Orientation(), c.ViewMatrix(), c.Distance(), c.Dragging()}
}

func TestNewLooksAtOrigin(t *testing.T) {
	c := newTestCamera()
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, eps))
	assert.Equal(t, mgl32.QuatIdent(), c.Orientation())
	assert.False(t, c.Dragging())

	eye := c.ViewMatrix().Mul4x1(c.Position().Vec4(1))
	assert.True(t, eye.ApproxEqualThreshold(mgl32.Vec4{0, 0, 0, 1}, eps))
	target := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, target.ApproxEqualThreshold(mgl32.Vec4{0, 0, -5, 1}, eps))
}

func TestViewMatrixIsInverseOfPose(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{10, 10})
	c.DragTo(Point{140, -35})
	c.Zoom(1.5)
	c.Update(0.016)

	pos := c.Position()
	pose := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(c.Orientation().Mat4())
	assert.True(t, c.ViewMatrix().Mul4(pose).ApproxEqualThreshold(mgl32.Ident4(), eps))
}

func TestOrientationStaysUnitLength(t *testing.T) {
	c := newTestCamera()
	rng := rand.New(rand.NewSource(1))
	c.StartDrag(Point{400, 300})
	for i := 0; i < 20000; i++ {
		c.DragTo(Point{rng.Float32() * 800, rng.Float32() * 600})
		if i%50 == 0 {
			c.Update(0.016)
		}
		l := c.Orientation().Len()
		require.InDelta(t, 1, l, 1e-5, "step %d", i)
	}
	c.EndDrag()
	for i := 0; i < 1000; i++ {
		c.Update(0.016)
	}
	assert.InDelta(t, 1, c.Orientation().Len(), 1e-5)
}

func TestDragAfterEndIsNoOp(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{100, 100})
	assert.True(t, c.Dragging())
	assert.True(t, c.DragTo(Point{160, 90}))
	c.EndDrag()
	assert.False(t, c.Dragging())

	before := snap(c)
	assert.False(t, c.DragTo(Point{500, 500}))
	assert.Equal(t, before, snap(c))
}

func TestDragWithoutStartIsNoOp(t *testing.T) {
	c := newTestCamera()
	before := snap(c)
	assert.False(t, c.DragTo(Point{42, 42}))
	assert.Equal(t, before, snap(c))
}

func TestDragIsIncremental(t *testing.T) {
	a := newTestCamera()
	a.StartDrag(Point{0, 0})
	a.DragTo(Point{50, 0})
	a.DragTo(Point{100, 0})

	b := newTestCamera()
	b.StartDrag(Point{0, 0})
	b.DragTo(Point{100, 0})

	assert.True(t, a.Position().ApproxEqualThreshold(b.Position(), eps))
}

// Pins the drag sensitivity: 100 pixels is half a radian.
func TestDragSensitivityRegression(t *testing.T) {
	assert.Equal(t, float32(0.005), DefaultOptions().Sensitivity)

	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{100, 0})
	want := mgl32.Vec3{float32(-5 * math.Sin(0.5)), 0, float32(5 * math.Cos(0.5))}
	assert.True(t, c.Position().ApproxEqualThreshold(want, eps), "got %v want %v", c.Position(), want)
	c.EndDrag()

	c = newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{0, 100})
	want = mgl32.Vec3{0, float32(5 * math.Sin(0.5)), float32(5 * math.Cos(0.5))}
	assert.True(t, c.Position().ApproxEqualThreshold(want, eps), "got %v want %v", c.Position(), want)
}

func TestZoomClamped(t *testing.T) {
	c := newTestCamera()
	opts := c.Options()
	for i := 0; i < 100; i++ {
		c.Zoom(3)
		require.GreaterOrEqual(t, c.Distance(), opts.MinDistance)
	}
	assert.Equal(t, opts.MinDistance, c.Distance())
	assert.InDelta(t, opts.MinDistance, c.Position().Len(), eps)

	for i := 0; i < 100; i++ {
		c.Zoom(-7)
		require.LessOrEqual(t, c.Distance(), opts.MaxDistance)
	}
	assert.Equal(t, opts.MaxDistance, c.Distance())
	assert.InDelta(t, opts.MaxDistance, c.Position().Len(), eps)
}

func TestZoomKeepsDirection(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{80, 30})
	c.EndDrag()
	dir := c.Position().Normalize()
	orient := c.Orientation()

	c.Zoom(2)
	assert.InDelta(t, 3, c.Distance(), eps)
	assert.True(t, c.Position().Normalize().ApproxEqualThreshold(dir, eps))
	assert.Equal(t, orient, c.Orientation())
}

func TestUpdateZeroIsIdempotent(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{30, 0})
	c.Update(0.1)
	c.EndDrag()

	before := snap(c)
	c.Update(0)
	c.Update(0)
	assert.Equal(t, before, snap(c))
}

func TestInertiaContinuesAndDecays(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{10, 0})
	c.Update(0.1)
	c.EndDrag()

	released := c.Orientation()
	c.Update(0.1)
	assert.False(t, c.Orientation().ApproxEqualThreshold(released, 1e-6), "camera should keep turning after release")

	for i := 0; i < 200; i++ {
		c.Update(0.1)
	}
	settled := snap(c)
	c.Update(0.1)
	assert.Equal(t, settled, snap(c), "inertia should have died out")
}

func TestHoldingStillDoesNotFling(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{40, 0})
	c.Update(0.016)
	c.Update(0.016) // pointer did not move this frame
	c.EndDrag()

	before := snap(c)
	c.Update(0.5)
	assert.Equal(t, before, snap(c))
}

// turnAngle is the rotation angle between two unit quaternions, radians.
func turnAngle(a, b mgl32.Quat) float64 {
	d := math.Abs(float64(a.Dot(b)))
	return 2 * math.Acos(math.Min(1, d))
}

func TestShortFrameDoesNotFling(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{200, 0})
	c.Update(0.0005)
	c.EndDrag()

	released := c.Orientation()
	c.Update(0.01)
	turned := turnAngle(released, c.Orientation())
	assert.Greater(t, turned, 0.0, "release should still carry some motion")
	assert.LessOrEqual(t, turned, MaxSpinRate*0.01+eps)
}

func TestStartDragCancelsInertia(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{50, 0})
	c.Update(0.05)
	c.EndDrag()

	c.StartDrag(Point{0, 0})
	before := snap(c)
	c.Update(0.05)
	assert.Equal(t, before, snap(c))
}

func TestResizeKeepsPose(t *testing.T) {
	c := newTestCamera()
	c.StartDrag(Point{0, 0})
	c.DragTo(Point{25, 60})
	c.EndDrag()
	before := snap(c)
	proj := c.ProjectionMatrix()

	c.Resize(1920, 1080)
	assert.Equal(t, before, snap(c))
	assert.NotEqual(t, proj, c.ProjectionMatrix())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 1920.0/1080.0, 0.1, 100), c.ProjectionMatrix())

	c.Resize(0, 0)
	for _, v := range c.ProjectionMatrix() {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestPanMovesTargetNotDistance(t *testing.T) {
	c := newTestCamera()
	c.Pan(100, 0)
	assert.Less(t, c.Target().X(), float32(0))
	assert.InDelta(t, 5, c.Position().Sub(c.Target()).Len(), eps)
	assert.InDelta(t, 5, c.Distance(), eps)

	c.Reset()
	assert.Equal(t, mgl32.Vec3{}, c.Target())
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, eps))
}

func TestOptionsDefaults(t *testing.T) {
	c := New(100, 100, Options{MinDistance: 2, MaxDistance: 1, Distance: 10})
	opts := c.Options()
	assert.Equal(t, float32(2), opts.MinDistance)
	assert.Equal(t, float32(2), opts.MaxDistance)
	assert.Equal(t, float32(2), c.Distance())
	assert.Equal(t, DefaultOptions().FOV, opts.FOV)
}
