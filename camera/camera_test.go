package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// affine mirrors ebiten.GeoM: each call post-multiplies the current matrix.
type affine struct {
	a, b, c, d, tx, ty float64
}

func identity() *affine { return &affine{a: 1, d: 1} }

func (m *affine) concat(a, b, c, d, tx, ty float64) {
	m.a, m.b, m.c, m.d, m.tx, m.ty =
		a*m.a+b*m.c, a*m.b+b*m.d,
		c*m.a+d*m.c, c*m.b+d*m.d,
		a*m.tx+b*m.ty+tx, c*m.tx+d*m.ty+ty
}

func (m *affine) Translate(tx, ty float64) { m.concat(1, 0, 0, 1, tx, ty) }
func (m *affine) Scale(x, y float64)       { m.concat(x, 0, 0, y, 0, 0) }
func (m *affine) Rotate(theta float64) {
	sin, cos := math.Sincos(theta)
	m.concat(cos, -sin, sin, cos, 0, 0)
}

func (m *affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.tx, m.c*x + m.d*y + m.ty
}

func TestZoomClamps(t *testing.T) {
	c := New(800, 600)
	require.Equal(t, DefaultDistance, c.Distance())
	require.Equal(t, 1.0, c.Scale())

	c.Zoom(1)
	require.Equal(t, 650.0, c.Distance())

	for i := 0; i < 100; i++ {
		c.Zoom(1)
	}
	require.Equal(t, MinDistance, c.Distance())
	require.InDelta(t, 3.5, c.Scale(), 1e-9)

	for i := 0; i < 100; i++ {
		c.Zoom(-1)
	}
	require.Equal(t, MaxDistance, c.Distance())
	require.InDelta(t, 0.35, c.Scale(), 1e-9)
}

func TestPanFollowsRotation(t *testing.T) {
	c := New(800, 600)
	c.Pan(0, 1, 1)
	require.InDelta(t, 0, c.PosX, 1e-9)
	require.InDelta(t, -PanSpeed, c.PosY, 1e-9)

	c.Reset()
	c.Pan(1, 1, 1)
	require.InDelta(t, PanSpeed, math.Hypot(c.PosX, c.PosY), 1e-9, "diagonal pan is not faster")

	// Whatever lies at the top of the viewport is where panning up goes.
	c.Reset()
	c.Rotate(0.9, 1)
	_, topY := c.WorldToScreen(0, 0)
	c.Pan(0, 1, 0.1)
	x, y := c.WorldToScreen(0, 0)
	require.InDelta(t, 400, x, 1e-9)
	require.Greater(t, y, topY)
}

func TestRotateWraps(t *testing.T) {
	c := New(800, 600)
	c.Rotate(1, 0.9)
	require.InDelta(t, math.Pi/2, c.Rotation(), 1e-9)

	c.Rotate(1, 2.7)
	require.InDelta(t, 0, c.Rotation(), 1e-9)
	require.LessOrEqual(t, math.Abs(c.Rotation()), math.Pi)
}

func TestWorldToScreen(t *testing.T) {
	c := New(800, 600)
	c.SnapTo(100, 50)

	x, y := c.WorldToScreen(100, 50)
	require.Equal(t, 400.0, x)
	require.Equal(t, 300.0, y)

	c.Zoom(-14)
	x, y = c.WorldToScreen(110, 50)
	require.InDelta(t, 405, x, 1e-9)
	require.InDelta(t, 300, y, 1e-9)
}

func TestTransformMatchesWorldToScreen(t *testing.T) {
	c := New(640, 480)
	c.SnapTo(-30, 75)
	c.Zoom(3)
	c.Rotate(0.4, 1)

	m := identity()
	c.Transform(m)
	for _, p := range [][2]float64{{0, 0}, {-30, 75}, {120, -40}, {7.5, 300}} {
		wantX, wantY := c.WorldToScreen(p[0], p[1])
		gotX, gotY := m.apply(p[0], p[1])
		require.InDelta(t, wantX, gotX, 1e-9)
		require.InDelta(t, wantY, gotY, 1e-9)
	}
}

func TestFollowSmooths(t *testing.T) {
	c := New(800, 600)
	c.Follow(100, -40)
	require.Equal(t, 15.0, c.PosX)
	require.Equal(t, -6.0, c.PosY)

	c.SetSmooth(0)
	c.Follow(100, -40)
	require.Equal(t, 100.0, c.PosX)
	require.Equal(t, -40.0, c.PosY)
}
