package thicket

import (
	"fmt"

	"github.com/google/uuid"
)

// fallbackTextureSlots is used when the renderer reports no slot count.
const fallbackTextureSlots = 8

// BatchLimits are the fixed capacities of one RenderBatch.
type BatchLimits struct {
	Vertices int
	Indices  int
	Textures int
	Colors   int // palette entries, bounded by the max texture dimension
}

// RenderBatch accumulates primitives into one vertex/index buffer drawn with
// a single DrawIndexed call.
//
// TryAdd is all-or-nothing: a primitive that would exceed any capacity
// leaves the batch untouched.
type RenderBatch struct {
	ID   uuid.UUID
	kind PoolKind

	limits    BatchLimits
	policy    TexturePolicy
	colorMode ColorMode

	renderer Renderer
	buffer   Buffer

	vertices   []Vertex
	indices    []uint32
	textures   []Texture
	palette    []Color
	primitives int

	uploaded  bool // buffer holds the current vertices and indices
	destroyed bool
}

// NewRenderBatch creates a batch whose capacities come from cfg and the
// renderer's limits.
func NewRenderBatch(r Renderer, kind PoolKind, cfg Config) (*RenderBatch, error) {
	if r == nil {
		return nil, fmt.Errorf("thicket: nil renderer: %w", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limits := batchLimits(r, cfg)
	buf, err := r.CreateBuffer(limits.Vertices, limits.Indices)
	if err != nil {
		return nil, fmt.Errorf("thicket: create %s batch buffer: %w", kind, err)
	}
	b := &RenderBatch{
		ID:        uuid.New(),
		kind:      kind,
		limits:    limits,
		policy:    cfg.TexturePolicy,
		colorMode: cfg.ColorMode,
		renderer:  r,
		buffer:    buf,
		vertices:  make([]Vertex, 0, limits.Vertices),
		indices:   make([]uint32, 0, limits.Indices),
	}
	getLogger().Debug("batch created",
		"batch", b.ID, "pool", kind,
		"vertices", limits.Vertices, "indices", limits.Indices,
		"textures", limits.Textures, "colors", limits.Colors)
	return b, nil
}

func batchLimits(r Renderer, cfg Config) BatchLimits {
	slots := r.MaxTextureSlots()
	if slots <= 0 {
		slots = fallbackTextureSlots
	}
	if cfg.MaxTextures > 0 && cfg.MaxTextures < slots {
		slots = cfg.MaxTextures
	}
	return BatchLimits{
		Vertices: cfg.MaxVertices,
		Indices:  cfg.MaxIndices,
		Textures: slots,
		Colors:   r.MaxTextureSize(),
	}
}

// Kind returns the pool the batch belongs to.
func (b *RenderBatch) Kind() PoolKind { return b.kind }

// Capacity returns the batch limits.
func (b *RenderBatch) Capacity() BatchLimits { return b.limits }

// Len returns the number of primitives added since the last Clear.
func (b *RenderBatch) Len() int { return b.primitives }

// Empty reports whether the batch holds no indices.
func (b *RenderBatch) Empty() bool { return len(b.indices) == 0 }

// Vertices returns the accumulated vertices. Read-only.
func (b *RenderBatch) Vertices() []Vertex { return b.vertices }

// Indices returns the accumulated, base-offset indices. Read-only.
func (b *RenderBatch) Indices() []uint32 { return b.indices }

// Textures returns the bound textures by slot. Read-only.
func (b *RenderBatch) Textures() []Texture { return b.textures }

// Palette returns the accumulated palette in palette color mode.
func (b *RenderBatch) Palette() []Color { return b.palette }

// Fits reports whether p could be added to an empty batch.
func (b *RenderBatch) Fits(p Primitive) bool {
	if len(p.Vertices()) > b.limits.Vertices || len(p.Indices()) > b.limits.Indices {
		return false
	}
	if p.Texture() != nil && b.limits.Textures < 1 {
		return false
	}
	if b.colorMode == ColorPalette && b.limits.Colors < 1 {
		return false
	}
	return true
}

// TryAdd appends p if every capacity allows it and reports whether it did.
// Indices are offset by the vertex count before p's vertices were appended.
// Primitives without indices are accepted and contribute nothing.
func (b *RenderBatch) TryAdd(p Primitive) bool {
	if b.destroyed {
		if globalDebug {
			debugCheckDisposed(true, "batch", "TryAdd")
		}
		return false
	}
	verts := p.Vertices()
	idx := p.Indices()
	if len(idx) == 0 {
		return true
	}
	if len(b.vertices)+len(verts) > b.limits.Vertices ||
		len(b.indices)+len(idx) > b.limits.Indices {
		return false
	}

	tex := p.Texture()
	slot := -1
	if tex != nil {
		slot = b.slotOf(tex)
		if slot < 0 && len(b.textures) >= b.limits.Textures {
			return false
		}
	}
	if b.colorMode == ColorPalette && len(b.palette) >= b.limits.Colors {
		return false
	}

	// Committed from here on.
	if tex != nil && slot < 0 {
		slot = len(b.textures)
		b.textures = append(b.textures, tex)
	}
	pal := -1
	if b.colorMode == ColorPalette {
		pal = len(b.palette)
		b.palette = append(b.palette, p.Color())
	}

	base := uint32(len(b.vertices))
	for _, v := range verts {
		v.Slot = float32(slot)
		v.Palette = float32(pal)
		b.vertices = append(b.vertices, v)
	}
	for _, i := range idx {
		b.indices = append(b.indices, base+i)
	}
	b.primitives++
	b.uploaded = false
	return true
}

// slotOf returns the slot already holding tex, or -1. Under
// TexturePerPrimitive every primitive gets a new slot.
func (b *RenderBatch) slotOf(tex Texture) int {
	if b.policy == TexturePerPrimitive {
		return -1
	}
	id := tex.ID()
	for i, t := range b.textures {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

// Render uploads the batch if needed and issues one DrawIndexed call using
// cam's view-projection matrix. A nil or disposed camera draws with the
// identity matrix. Empty batches draw nothing. Render does not clear.
func (b *RenderBatch) Render(cam *Camera2D) bool {
	if b.destroyed || len(b.indices) == 0 {
		return false
	}
	vp := IdentityMatrix
	if cam != nil && !cam.IsDisposed() {
		vp = cam.ViewProjectionMatrix()
	}
	b.renderer.SetMatrix(UniformViewProjection, vp)
	for i, t := range b.textures {
		b.renderer.BindTexture(i, t)
	}
	if b.colorMode == ColorPalette {
		b.renderer.SetPalette(b.palette)
	}
	if !b.uploaded {
		b.buffer.SetData(b.vertices, b.indices)
		b.uploaded = true
	}
	b.renderer.DrawIndexed(b.buffer, len(b.indices))
	return true
}

// Clear empties the batch, keeping its allocations.
func (b *RenderBatch) Clear() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	clear(b.textures)
	b.textures = b.textures[:0]
	b.palette = b.palette[:0]
	b.primitives = 0
	b.uploaded = false
}

// Destroy releases the renderer buffer. The batch is unusable afterwards.
func (b *RenderBatch) Destroy() {
	if b.destroyed {
		return
	}
	b.Clear()
	b.buffer.Release()
	b.destroyed = true
}
