package thicket

import (
	"fmt"
	"math"
)

// --- Rectangle ---

// Rectangle is an axis-aligned box centered on its transform origin.
type Rectangle struct {
	shapeBase
	width, height float64
}

// NewRectangle creates a w by h rectangle centered at the origin.
func NewRectangle(w, h float64) *Rectangle {
	checkDimension("rectangle width", w)
	checkDimension("rectangle height", h)
	r := &Rectangle{width: w, height: h}
	r.init(r, "rectangle")
	return r
}

// Size returns the rectangle's width and height.
func (r *Rectangle) Size() (float64, float64) { return r.width, r.height }

// SetSize changes the rectangle dimensions.
func (r *Rectangle) SetSize(w, h float64) {
	checkDimension("rectangle width", w)
	checkDimension("rectangle height", h)
	if w == r.width && h == r.height {
		return
	}
	r.width, r.height = w, h
	r.invalidate()
}

func (r *Rectangle) kind() string { return "rectangle" }

func (r *Rectangle) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	hw, hh := r.width/2, r.height/2
	pos = append(pos,
		Vec2{-hw, -hh},
		Vec2{hw, -hh},
		Vec2{hw, hh},
		Vec2{-hw, hh},
	)
	uv = append(uv, Vec2{0, 1}, Vec2{1, 1}, Vec2{1, 0}, Vec2{0, 0})
	return pos, uv
}

func (r *Rectangle) buildIndices(dst []uint32, _ []Vec2) ([]uint32, error) {
	return append(dst, quadIndices[:]...), nil
}

// --- Circle ---

// DefaultCircleSegments is a reasonable segment count for small circles.
const DefaultCircleSegments = 32

// Circle is a regular polygon approximation of a circle centered on its
// transform origin.
type Circle struct {
	shapeBase
	radius   float64
	segments int
}

// NewCircle creates a circle approximated by n segments (n >= 3).
func NewCircle(radius float64, n int) *Circle {
	checkDimension("circle radius", radius)
	checkSegments(n)
	c := &Circle{radius: radius, segments: n}
	c.init(c, "circle")
	return c
}

// Radius returns the circle radius.
func (c *Circle) Radius() float64 { return c.radius }

// Segments returns the number of perimeter vertices.
func (c *Circle) Segments() int { return c.segments }

// SetRadius changes the radius.
func (c *Circle) SetRadius(radius float64) {
	checkDimension("circle radius", radius)
	if radius == c.radius {
		return
	}
	c.radius = radius
	c.invalidate()
}

// SetSegments changes the perimeter vertex count.
func (c *Circle) SetSegments(n int) {
	checkSegments(n)
	if n == c.segments {
		return
	}
	c.segments = n
	c.invalidate()
}

func (c *Circle) kind() string { return "circle" }

func (c *Circle) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	step := 2 * math.Pi / float64(c.segments)
	for i := 0; i < c.segments; i++ {
		sin, cos := math.Sincos(step * float64(i))
		pos = append(pos, Vec2{c.radius * cos, c.radius * sin})
		uv = append(uv, Vec2{(cos + 1) / 2, (1 - sin) / 2})
	}
	return pos, uv
}

func (c *Circle) buildIndices(dst []uint32, pos []Vec2) ([]uint32, error) {
	return appendFan(dst, len(pos)), nil
}

// --- Triangle ---

// Triangle is defined by three local-space points.
type Triangle struct {
	shapeBase
	points [3]Vec2
}

// NewTriangle creates a triangle from three points in either winding.
func NewTriangle(a, b, c Vec2) *Triangle {
	t := &Triangle{points: [3]Vec2{a, b, c}}
	t.init(t, "triangle")
	return t
}

// Points returns the triangle's local-space points as given.
func (t *Triangle) Points() (Vec2, Vec2, Vec2) {
	return t.points[0], t.points[1], t.points[2]
}

// SetPoints replaces the triangle's points.
func (t *Triangle) SetPoints(a, b, c Vec2) {
	t.points = [3]Vec2{a, b, c}
	t.invalidate()
}

func (t *Triangle) kind() string { return "triangle" }

func (t *Triangle) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	pos = append(pos, t.points[:]...)
	return pos, appendBoundsUV(uv, t.points[:])
}

func (t *Triangle) buildIndices(dst []uint32, _ []Vec2) ([]uint32, error) {
	return append(dst, 0, 1, 2), nil
}

// --- Polygon ---

// Polygon is a simple polygon in local space. Convex polygons are
// fan-triangulated; concave ones are ear-clipped.
type Polygon struct {
	shapeBase
	points []Vec2
}

// NewPolygon creates a polygon from at least three points. The points are
// copied.
func NewPolygon(points []Vec2) *Polygon {
	checkPolygonPoints(points)
	p := &Polygon{points: append([]Vec2(nil), points...)}
	p.init(p, "polygon")
	return p
}

// Points returns a copy of the polygon's points.
func (p *Polygon) Points() []Vec2 {
	return append([]Vec2(nil), p.points...)
}

// SetPoints replaces the polygon outline.
func (p *Polygon) SetPoints(points []Vec2) {
	checkPolygonPoints(points)
	p.points = append(p.points[:0], points...)
	p.invalidate()
}

func (p *Polygon) kind() string { return "polygon" }

func (p *Polygon) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	pos = append(pos, p.points...)
	return pos, appendBoundsUV(uv, p.points)
}

func (p *Polygon) buildIndices(dst []uint32, pos []Vec2) ([]uint32, error) {
	if isConvex(pos) {
		if math.Abs(signedArea(pos)) < 1e-12 {
			return dst, ErrDegeneratePolygon
		}
		return appendFan(dst, len(pos)), nil
	}
	return appendTriangulation(dst, pos)
}

// --- Line ---

// Line is a thick segment rendered as a quad.
type Line struct {
	shapeBase
	from, to  Vec2
	thickness float64
}

// NewLine creates a segment from a to b with the given thickness.
func NewLine(from, to Vec2, thickness float64) *Line {
	checkDimension("line thickness", thickness)
	l := &Line{from: from, to: to, thickness: thickness}
	l.init(l, "line")
	return l
}

// Endpoints returns the segment endpoints.
func (l *Line) Endpoints() (Vec2, Vec2) { return l.from, l.to }

// Thickness returns the line thickness.
func (l *Line) Thickness() float64 { return l.thickness }

// SetEndpoints moves the segment endpoints.
func (l *Line) SetEndpoints(from, to Vec2) {
	if from == l.from && to == l.to {
		return
	}
	l.from, l.to = from, to
	l.invalidate()
}

// SetThickness changes the line thickness.
func (l *Line) SetThickness(thickness float64) {
	checkDimension("line thickness", thickness)
	if thickness == l.thickness {
		return
	}
	l.thickness = thickness
	l.invalidate()
}

func (l *Line) kind() string { return "line" }

func (l *Line) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	nx, ny := perpendicular(l.from, l.to)
	hw := l.thickness / 2
	ox, oy := nx*hw, ny*hw
	pos = append(pos,
		Vec2{l.from.X - ox, l.from.Y - oy},
		Vec2{l.to.X - ox, l.to.Y - oy},
		Vec2{l.to.X + ox, l.to.Y + oy},
		Vec2{l.from.X + ox, l.from.Y + oy},
	)
	uv = append(uv, Vec2{0, 1}, Vec2{1, 1}, Vec2{1, 0}, Vec2{0, 0})
	return pos, uv
}

func (l *Line) buildIndices(dst []uint32, _ []Vec2) ([]uint32, error) {
	return append(dst, quadIndices[:]...), nil
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
// A zero-length segment yields (0, 1).
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, 1
	}
	return -dy / ln, dx / ln
}

// --- Validation ---

func checkDimension(what string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("thicket: %s must be positive, got %v", what, v))
	}
}

func checkSegments(n int) {
	if n < 3 {
		panic(fmt.Sprintf("thicket: circle needs at least 3 segments, got %d", n))
	}
}

func checkPolygonPoints(points []Vec2) {
	if len(points) < 3 {
		panic(fmt.Sprintf("thicket: polygon needs at least 3 points, got %d", len(points)))
	}
}

var (
	_ Shape = (*Rectangle)(nil)
	_ Shape = (*Circle)(nil)
	_ Shape = (*Triangle)(nil)
	_ Shape = (*Polygon)(nil)
	_ Shape = (*Line)(nil)
)
