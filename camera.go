package thicket

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera2D is an orthographic 2D camera. Size is the world-space extent of
// the visible area at zoom 1, Position its world-space center.
//
//	ndc = ((world - position) * zoom) / (size / 2)
//
// View and projection matrices are cached separately and rebuilt only when
// their inputs change.
type Camera2D struct {
	size     Vec2
	position Vec2
	zoom     float64

	windowW, windowH int

	// CullEnabled makes the scheduler skip primitives whose world bounds do
	// not intersect VisibleBounds.
	CullEnabled bool

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	followTarget  *TransformNode
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	scrollTween *scrollAnim
	zoomTween   *gween.Tween

	view      Matrix
	proj      Matrix
	viewProj  Matrix
	viewDirty bool
	projDirty bool
	vpDirty   bool

	disposed bool

	viewBuilds int
	projBuilds int
}

// NewCamera2D creates a camera centered at the origin with zoom 1 showing
// width x height world units. The window size defaults to the same numbers
// in pixels until SetWindowSize is called.
func NewCamera2D(width, height float64) *Camera2D {
	checkCameraSize(width, height)
	return &Camera2D{
		size:      Vec2{width, height},
		zoom:      1,
		windowW:   int(math.Max(1, math.Round(width))),
		windowH:   int(math.Max(1, math.Round(height))),
		viewDirty: true,
		projDirty: true,
		vpDirty:   true,
	}
}

func checkCameraSize(w, h float64) {
	if !(w > 0) || !(h > 0) {
		panic("thicket: camera size must be positive")
	}
}

func checkFactor(f float64, what string) {
	if !(f > 0) {
		panic("thicket: camera " + what + " must be positive")
	}
}

// --- Inputs ---

// SetSize sets the visible world extent at zoom 1.
func (c *Camera2D) SetSize(width, height float64) {
	checkCameraSize(width, height)
	c.size = Vec2{width, height}
	c.projDirty = true
}

// SetSizeScale sets the smaller window dimension to scale world units and
// derives the other one from the window aspect ratio.
func (c *Camera2D) SetSizeScale(scale float64) {
	checkFactor(scale, "size scale")
	w, h := float64(c.windowW), float64(c.windowH)
	if w >= h {
		c.SetSize(scale*w/h, scale)
	} else {
		c.SetSize(scale, scale*h/w)
	}
}

// Size returns the visible world extent at zoom 1.
func (c *Camera2D) Size() Vec2 { return c.size }

// SetWindowSize records the pixel size of the window or render target.
func (c *Camera2D) SetWindowSize(w, h int) {
	if w <= 0 || h <= 0 {
		panic("thicket: window size must be positive")
	}
	c.windowW, c.windowH = w, h
}

// WindowSize returns the pixel size used by window conversions.
func (c *Camera2D) WindowSize() (int, int) { return c.windowW, c.windowH }

// SetPosition centers the camera on (x, y).
func (c *Camera2D) SetPosition(x, y float64) {
	c.position = Vec2{x, y}
	c.viewDirty = true
}

// Move offsets the camera position.
func (c *Camera2D) Move(dx, dy float64) {
	c.position.X += dx
	c.position.Y += dy
	c.viewDirty = true
}

// Position returns the world-space center.
func (c *Camera2D) Position() Vec2 { return c.position }

// SetZoom sets the zoom factor (1 = no zoom, >1 = zoom in).
func (c *Camera2D) SetZoom(z float64) {
	checkFactor(z, "zoom")
	c.zoom = z
	c.projDirty = true
}

// ZoomIn multiplies the zoom by factor.
func (c *Camera2D) ZoomIn(factor float64) {
	checkFactor(factor, "zoom factor")
	c.SetZoom(c.zoom * factor)
}

// ZoomOut divides the zoom by factor.
func (c *Camera2D) ZoomOut(factor float64) {
	checkFactor(factor, "zoom factor")
	c.SetZoom(c.zoom / factor)
}

// Zoom returns the zoom factor.
func (c *Camera2D) Zoom() float64 { return c.zoom }

// --- Matrices ---

// ViewMatrix returns translate(-position).
func (c *Camera2D) ViewMatrix() Matrix {
	if c.viewDirty {
		c.view = TranslateMatrix(-c.position.X, -c.position.Y)
		c.viewDirty = false
		c.vpDirty = true
		c.viewBuilds++
	}
	return c.view
}

// ProjectionMatrix returns the orthographic box of half-extent
// size / (2 * zoom) mapped onto [-1, 1].
func (c *Camera2D) ProjectionMatrix() Matrix {
	if c.projDirty {
		c.proj = ScaleMatrix(2*c.zoom/c.size.X, 2*c.zoom/c.size.Y)
		c.projDirty = false
		c.vpDirty = true
		c.projBuilds++
	}
	return c.proj
}

// ViewProjectionMatrix returns projection * view, cached until either input
// changes.
func (c *Camera2D) ViewProjectionMatrix() Matrix {
	v := c.ViewMatrix()
	p := c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProj = multiplyAffine(p, v)
		c.vpDirty = false
	}
	return c.viewProj
}

// --- Coordinate conversion ---

// WorldToNdc converts a world position to normalized device coordinates.
func (c *Camera2D) WorldToNdc(p Vec2) Vec2 {
	return Vec2{
		(p.X - c.position.X) * c.zoom / (c.size.X / 2),
		(p.Y - c.position.Y) * c.zoom / (c.size.Y / 2),
	}
}

// NdcToWorld converts normalized device coordinates to a world position.
func (c *Camera2D) NdcToWorld(p Vec2) Vec2 {
	return Vec2{
		p.X*(c.size.X/2)/c.zoom + c.position.X,
		p.Y*(c.size.Y/2)/c.zoom + c.position.Y,
	}
}

// WindowToNdc maps a pixel position (Y down) to NDC (Y up).
func (c *Camera2D) WindowToNdc(p Vec2) Vec2 {
	return Vec2{
		2*p.X/float64(c.windowW) - 1,
		1 - 2*p.Y/float64(c.windowH),
	}
}

// NdcToWindow maps NDC (Y up) to a pixel position (Y down).
func (c *Camera2D) NdcToWindow(p Vec2) Vec2 {
	return Vec2{
		(p.X + 1) / 2 * float64(c.windowW),
		(1 - p.Y) / 2 * float64(c.windowH),
	}
}

// WindowToWorld converts a pixel position to a world position.
func (c *Camera2D) WindowToWorld(p Vec2) Vec2 {
	return c.NdcToWorld(c.WindowToNdc(p))
}

// WorldToWindow converts a world position to a pixel position.
func (c *Camera2D) WorldToWindow(p Vec2) Vec2 {
	return c.NdcToWindow(c.WorldToNdc(p))
}

// WorldSizeToNdc converts a world-space extent to an NDC extent.
func (c *Camera2D) WorldSizeToNdc(s Vec2) Vec2 {
	return Vec2{s.X * c.zoom / (c.size.X / 2), s.Y * c.zoom / (c.size.Y / 2)}
}

// NdcSizeToWorld converts an NDC extent to a world-space extent.
func (c *Camera2D) NdcSizeToWorld(s Vec2) Vec2 {
	return Vec2{s.X * (c.size.X / 2) / c.zoom, s.Y * (c.size.Y / 2) / c.zoom}
}

// WindowSizeToWorld converts a pixel extent to a world-space extent.
func (c *Camera2D) WindowSizeToWorld(s Vec2) Vec2 {
	return c.NdcSizeToWorld(Vec2{2 * s.X / float64(c.windowW), 2 * s.Y / float64(c.windowH)})
}

// WorldSizeToWindow converts a world-space extent to a pixel extent.
func (c *Camera2D) WorldSizeToWindow(s Vec2) Vec2 {
	n := c.WorldSizeToNdc(s)
	return Vec2{n.X / 2 * float64(c.windowW), n.Y / 2 * float64(c.windowH)}
}

// VisibleBounds returns the world-space rectangle currently in view.
func (c *Camera2D) VisibleBounds() Rect {
	halfW := c.size.X / (2 * c.zoom)
	halfH := c.size.Y / (2 * c.zoom)
	return Rect{
		X:      c.position.X - halfW,
		Y:      c.position.Y - halfH,
		Width:  2 * halfW,
		Height: 2 * halfH,
	}
}

// --- Follow, scroll and bounds ---

// Follow makes the camera track a node's world position with the given
// offset and lerp factor. A lerp of 1.0 snaps immediately.
func (c *Camera2D) Follow(node *TransformNode, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera2D) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera2D) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.position.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.position.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom factor over duration seconds.
func (c *Camera2D) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	checkFactor(zoom, "zoom")
	c.zoomTween = gween.New(float32(c.zoom), float32(zoom), duration, easeFn)
}

// SetBounds enables camera bounds clamping.
func (c *Camera2D) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera2D) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera2D) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, scroll/zoom tweens and bounds clamping by dt seconds.
func (c *Camera2D) Update(dt float32) {
	if c.followTarget != nil {
		if c.followTarget.IsDisposed() {
			c.followTarget = nil
		} else {
			wx, wy := c.followTarget.LocalToWorld(0, 0)
			tx := wx + c.followOffsetX
			ty := wy + c.followOffsetY
			c.Move((tx-c.position.X)*c.followLerp, (ty-c.position.Y)*c.followLerp)
		}
	}

	if c.scrollTween != nil {
		x, y := c.position.X, c.position.Y
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			x = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			y = float64(val)
			c.scrollTween.doneY = done
		}
		c.SetPosition(x, y)
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(dt)
		if val > 0 {
			c.SetZoom(float64(val))
		}
		if done {
			c.zoomTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera2D) clampToBounds() {
	halfW := c.size.X / (2 * c.zoom)
	halfH := c.size.Y / (2 * c.zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	x, y := c.position.X, c.position.Y
	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		x = c.Bounds.X + c.Bounds.Width/2
	} else {
		x = math.Max(minX, math.Min(x, maxX))
	}
	if minY > maxY {
		y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		y = math.Max(minY, math.Min(y, maxY))
	}
	if x != c.position.X || y != c.position.Y {
		c.SetPosition(x, y)
	}
}

// --- Disposal ---

// Dispose marks the camera dead. Schedulers still holding it render with
// the identity view-projection.
func (c *Camera2D) Dispose() {
	c.disposed = true
	c.followTarget = nil
	c.scrollTween = nil
	c.zoomTween = nil
}

// IsDisposed reports whether Dispose was called.
func (c *Camera2D) IsDisposed() bool {
	return c.disposed
}
