package thicket

import "math"

// Vertex is a world-space vertex as appended into a batch.
//
// U and V are normalized texture coordinates with (0, 0) at the top-left of
// the image. Slot is the batch texture slot (-1 when untextured) and Palette
// the batch palette index (-1 outside palette mode); both are assigned by
// RenderBatch.TryAdd.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
	Slot       float32
	Palette    float32
}

// Primitive is anything the batching layer can accept: shapes and sprites.
type Primitive interface {
	// Vertices returns world-space vertices. The slice is owned by the
	// primitive and stays valid until its next mutation.
	Vertices() []Vertex
	// Indices returns the triangle list into Vertices, or nil when the
	// geometry could not be triangulated.
	Indices() []uint32
	// Texture returns the bound texture, or nil for untextured primitives.
	Texture() Texture
	// Color returns the primitive's color (the tint for sprites).
	Color() Color
	// Bounds returns the world-space axis-aligned bounding box.
	Bounds() Rect
}

// Shape is a transformable primitive with cached world vertices.
type Shape interface {
	Primitive
	Transform() *TransformNode
	SetTransform(node *TransformNode)
	SetColor(c Color)
	Valid() bool
	Destroy()
}

// faceCulling mirrors the scheduler's FaceCulling flag. When set, shapes
// normalize their local winding to counter-clockwise and flip triangle
// order under mirroring transforms.
var faceCulling bool

// SetFaceCulling toggles winding normalization for all shapes. Shapes
// rebuild their geometry the next time they are read.
func SetFaceCulling(enabled bool) {
	faceCulling = enabled
}

// FaceCulling reports whether winding normalization is active.
func FaceCulling() bool {
	return faceCulling
}

// geometry produces the local-space data of one shape kind.
type geometry interface {
	kind() string
	// buildLocal appends local positions and matching texture coordinates.
	buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2)
	// buildIndices appends the triangle list for pos.
	buildIndices(dst []uint32, pos []Vec2) ([]uint32, error)
}

// shapeBase implements the caching shared by every shape and sprite.
//
// Local geometry is rebuilt when a parameter setter ran or the culling mode
// changed. World vertices are rebuilt when local geometry or the color was
// rebuilt, or when the transform's change id moved past the one cached at
// the last world build.
type shapeBase struct {
	geom          geometry
	transform     *TransformNode
	ownsTransform bool
	color         Color
	texture       Texture

	localPos []Vec2
	localUV  []Vec2
	indices  []uint32
	world    []Vertex
	bounds   Rect

	geometryDirty bool
	colorDirty    bool
	builtCulling  bool
	worldChangeID uint64
	mirrored      bool // indices currently flipped for a mirroring transform
	valid         bool
	destroyed     bool

	localBuilds int
	worldBuilds int
}

func (b *shapeBase) init(g geometry, name string) {
	b.geom = g
	b.transform = NewTransformNode(name)
	b.ownsTransform = true
	b.color = ColorWhite
	b.geometryDirty = true
}

// Transform returns the node that positions this shape.
func (b *shapeBase) Transform() *TransformNode {
	return b.transform
}

// SetTransform shares node instead of the shape's own transform. The
// previously owned node is disposed.
func (b *shapeBase) SetTransform(node *TransformNode) {
	if node == nil {
		panic("thicket: shape transform cannot be nil")
	}
	if node == b.transform {
		return
	}
	if b.ownsTransform {
		b.transform.Dispose()
	}
	b.transform = node
	b.ownsTransform = false
	b.worldChangeID = 0
}

// SetColor sets the shape color (the tint for sprites).
func (b *shapeBase) SetColor(c Color) {
	b.color = c
	b.colorDirty = true
}

// Color returns the shape color.
func (b *shapeBase) Color() Color {
	return b.color
}

// Texture returns the bound texture, or nil.
func (b *shapeBase) Texture() Texture {
	return b.texture
}

// Valid reports whether the current geometry produced a triangle list.
func (b *shapeBase) Valid() bool {
	b.refresh()
	return b.valid
}

// Vertices returns the world-space vertices, rebuilding caches as needed.
func (b *shapeBase) Vertices() []Vertex {
	b.refresh()
	return b.world
}

// Indices returns the triangle list, or nil if triangulation failed.
func (b *shapeBase) Indices() []uint32 {
	b.refresh()
	if !b.valid {
		return nil
	}
	return b.indices
}

// Bounds returns the world-space bounding box.
func (b *shapeBase) Bounds() Rect {
	b.refresh()
	return b.bounds
}

// Destroy releases the owned transform. Further reads return no geometry.
func (b *shapeBase) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.ownsTransform {
		b.transform.Dispose()
	}
	b.localPos = nil
	b.localUV = nil
	b.indices = nil
	b.world = nil
	b.valid = false
}

// IsDestroyed reports whether Destroy has been called.
func (b *shapeBase) IsDestroyed() bool { return b.destroyed }

// invalidate marks local geometry stale after a parameter change.
func (b *shapeBase) invalidate() {
	b.geometryDirty = true
}

func (b *shapeBase) refresh() {
	if b.destroyed {
		if globalDebug {
			debugCheckDisposed(true, b.geom.kind(), "read")
		}
		return
	}
	culling := faceCulling
	rebuilt := false
	if b.geometryDirty || culling != b.builtCulling {
		b.rebuildLocal(culling)
		rebuilt = true
	}
	id := b.transform.ChangeID()
	if rebuilt || b.colorDirty || id != b.worldChangeID {
		b.rebuildWorld(culling)
		b.worldChangeID = id
	}
}

func (b *shapeBase) rebuildLocal(culling bool) {
	b.localPos, b.localUV = b.geom.buildLocal(b.localPos[:0], b.localUV[:0])
	if culling && signedArea(b.localPos) < 0 {
		reverseVec2(b.localPos)
		reverseVec2(b.localUV)
	}
	idx, err := b.geom.buildIndices(b.indices[:0], b.localPos)
	if err != nil {
		getLogger().Warn("shape produced no triangles",
			"kind", b.geom.kind(), "vertices", len(b.localPos), "err", err)
		b.indices = idx[:0]
		b.valid = false
	} else {
		b.indices = idx
		b.valid = true
	}
	b.mirrored = false
	b.geometryDirty = false
	b.builtCulling = culling
	b.localBuilds++
}

func (b *shapeBase) rebuildWorld(culling bool) {
	m := b.transform.WorldMatrix()
	n := len(b.localPos)
	if cap(b.world) < n {
		b.world = make([]Vertex, n)
	}
	b.world = b.world[:n]

	cr := float32(b.color.R)
	cg := float32(b.color.G)
	cb := float32(b.color.B)
	ca := float32(b.color.A)
	for i, p := range b.localPos {
		x, y := transformPoint(m, p.X, p.Y)
		uv := b.localUV[i]
		b.world[i] = Vertex{
			X: float32(x), Y: float32(y),
			U: float32(uv.X), V: float32(uv.Y),
			R: cr, G: cg, B: cb, A: ca,
			Slot:    -1,
			Palette: -1,
		}
	}

	if culling {
		mirrored := m.Det() < 0
		if mirrored != b.mirrored {
			flipWinding(b.indices)
			b.mirrored = mirrored
		}
	}

	b.bounds = transformedAABB(m, b.localPos)
	b.colorDirty = false
	b.worldBuilds++
}

// --- Geometry helpers ---

// signedArea returns twice the signed area of the polygon; positive for
// counter-clockwise winding in a Y-up space.
func signedArea(pts []Vec2) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		c := pts[(i+1)%n]
		sum += a.X*c.Y - c.X*a.Y
	}
	return sum
}

func reverseVec2(s []Vec2) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// flipWinding toggles each triangle between {a,b,c} and {c,b,a}.
func flipWinding(indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		indices[i], indices[i+2] = indices[i+2], indices[i]
	}
}

// quadIndices is the index pattern for four counter-clockwise corners.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// appendFan appends triangle-fan indices {0,1,2, 0,2,3, ...} for n vertices.
func appendFan(dst []uint32, n int) []uint32 {
	for i := 1; i+1 < n; i++ {
		dst = append(dst, 0, uint32(i), uint32(i+1))
	}
	return dst
}

// isConvex reports whether pts form a convex polygon in either winding.
func isConvex(pts []Vec2) bool {
	n := len(pts)
	if n < 4 {
		return true
	}
	sign := 0
	turning := 0.0
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		e1x, e1y := b.X-a.X, b.Y-a.Y
		e2x, e2y := c.X-b.X, c.Y-b.Y
		cross := e1x*e2y - e1y*e2x
		switch {
		case cross > 1e-12:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-12:
			if sign > 0 {
				return false
			}
			sign = -1
		}
		turning += math.Atan2(cross, e1x*e2x+e1y*e2y)
	}
	// A star outline turns one way at every vertex but winds more than once.
	return math.Abs(math.Abs(turning)-2*math.Pi) < 1e-6
}

// appendBoundsUV appends texture coordinates mapping the bounding box of
// pts onto the unit square, with V pointing down.
func appendBoundsUV(uv []Vec2, pts []Vec2) []Vec2 {
	if len(pts) == 0 {
		return uv
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	w := maxX - minX
	h := maxY - minY
	for _, p := range pts {
		var u, v float64
		if w > 0 {
			u = (p.X - minX) / w
		}
		if h > 0 {
			v = (maxY - p.Y) / h
		}
		uv = append(uv, Vec2{u, v})
	}
	return uv
}
