package camera

import "math"

// Distances are in world units between the camera and the plane it looks at.
// Scale is DefaultDistance/distance, so the default distance draws at 1:1.
const (
	DefaultDistance = 700.0
	MinDistance     = 200.0
	MaxDistance     = 2000.0
	// ZoomStep is the distance change per unit of zoom input.
	ZoomStep = 50.0
	// PanSpeed is in world units per second.
	PanSpeed = 600.0
	// RotationSpeed is in degrees per second.
	RotationSpeed = 100.0
)

// Camera maps world coordinates onto a viewport centered on PosX, PosY. It
// can be zoomed, rotated, panned freely or made to follow a target.
type Camera struct {
	PosX float64
	PosY float64

	viewW    int
	viewH    int
	distance float64
	rotation float64

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64
}

// New creates a camera for a viewport of the given size, centered on the
// world origin.
func New(viewW, viewH int) *Camera {
	return &Camera{viewW: viewW, viewH: viewH, distance: DefaultDistance, smooth: 0.15}
}

// Reset returns to the origin at the default distance with no rotation.
func (c *Camera) Reset() {
	c.PosX, c.PosY = 0, 0
	c.distance = DefaultDistance
	c.rotation = 0
}

// SetViewSize updates the viewport size.
func (c *Camera) SetViewSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.viewW = w
	c.viewH = h
}

func (c *Camera) ViewSize() (int, int) {
	return c.viewW, c.viewH
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = clamp(f, 0, 1)
}

// Zoom moves the camera ZoomStep closer per unit of amount. Negative amounts
// move it away. The distance stays within MinDistance and MaxDistance.
func (c *Camera) Zoom(amount float64) {
	c.distance = clamp(c.distance-amount*ZoomStep, MinDistance, MaxDistance)
}

func (c *Camera) Distance() float64 {
	return c.distance
}

// Scale is the world-to-screen magnification at the current distance.
func (c *Camera) Scale() float64 {
	return DefaultDistance / c.distance
}

// Rotate turns the view by yaw*RotationSpeed degrees per second over dt.
func (c *Camera) Rotate(yaw, dt float64) {
	c.rotation = math.Remainder(c.rotation+yaw*RotationSpeed*dt*math.Pi/180, 2*math.Pi)
}

// Rotation is the view rotation in radians.
func (c *Camera) Rotation() float64 {
	return c.rotation
}

// Pan moves the camera at PanSpeed in a screen-relative direction: right and
// up are the input axes, so up always pans towards the top of the viewport
// whatever the rotation. Diagonal input is not faster than straight input.
func (c *Camera) Pan(right, up, dt float64) {
	sx, sy := right, -up
	if l := math.Hypot(sx, sy); l > 1 {
		sx, sy = sx/l, sy/l
	}
	sin, cos := math.Sincos(c.rotation)
	c.PosX += (cos*sx - sin*sy) * PanSpeed * dt
	c.PosY += (sin*sx + cos*sy) * PanSpeed * dt
}

// Follow moves the camera toward the target. Call from the fixed-rate Update
// loop to get consistent smoothing.
func (c *Camera) Follow(targetX, targetY float64) {
	if c.smooth <= 0 {
		c.PosX = targetX
		c.PosY = targetY
	} else {
		c.PosX += (targetX - c.PosX) * c.smooth
		c.PosY += (targetY - c.PosY) * c.smooth
	}
	c.snap()
}

// SnapTo immediately centers the camera on the given world coordinates.
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.snap()
}

// snap aligns the position to the 1/scale grid so source texels land on
// whole screen pixels.
func (c *Camera) snap() {
	s := c.Scale()
	c.PosX = math.Round(c.PosX*s) / s
	c.PosY = math.Round(c.PosY*s) / s
}

// WorldToScreen maps a world point into viewport coordinates. It applies the
// same steps, in the same order, as Transform.
func (c *Camera) WorldToScreen(x, y float64) (float64, float64) {
	x -= c.PosX
	y -= c.PosY
	sin, cos := math.Sincos(-c.rotation)
	x, y = cos*x-sin*y, sin*x+cos*y
	s := c.Scale()
	return x*s + float64(c.viewW)/2, y*s + float64(c.viewH)/2
}

// Geo is the subset of ebiten.GeoM the camera needs.
type Geo interface {
	Translate(tx, ty float64)
	Rotate(theta float64)
	Scale(x, y float64)
}

// Transform appends the world-to-viewport transform to g.
func (c *Camera) Transform(g Geo) {
	g.Translate(-c.PosX, -c.PosY)
	g.Rotate(-c.rotation)
	s := c.Scale()
	g.Scale(s, s)
	g.Translate(float64(c.viewW)/2, float64(c.viewH)/2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
