package thicket

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	ebitenTextureSlots   = 16
	ebitenMaxTextureSize = 4096
)

// imageSource is implemented by textures that can hand out an ebiten image.
type imageSource interface {
	Image() *ebiten.Image
}

// EbitenRenderer draws batches onto an *ebiten.Image with DrawTriangles32.
//
// Ebiten binds one source image per draw, so a batch is issued as one
// DrawTriangles32 call per run of consecutive triangles sharing a slot.
// Vertices are taken through the view-projection matrix to NDC and then to
// target pixels.
type EbitenRenderer struct {
	target  *ebiten.Image
	slots   [ebitenTextureSlots]Texture
	palette []Color
	vp      Matrix

	verts []ebiten.Vertex
	op    ebiten.DrawTrianglesOptions
}

// NewEbitenRenderer returns a renderer with no target. Call SetTarget each
// frame from Game.Draw.
func NewEbitenRenderer() *EbitenRenderer {
	r := &EbitenRenderer{vp: IdentityMatrix}
	r.op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	return r
}

// SetTarget selects the image draws go to. A nil target discards draws.
func (r *EbitenRenderer) SetTarget(img *ebiten.Image) {
	r.target = img
}

// Target returns the current target image.
func (r *EbitenRenderer) Target() *ebiten.Image {
	return r.target
}

// Clear fills the target with c.
func (r *EbitenRenderer) Clear(c Color) {
	if r.target != nil {
		r.target.Fill(c.toRGBA())
	}
}

// SetBlend sets the blend mode used for every draw.
func (r *EbitenRenderer) SetBlend(mode BlendMode) {
	r.op.Blend = mode.EbitenBlend()
}

func (r *EbitenRenderer) MaxTextureSlots() int { return ebitenTextureSlots }
func (r *EbitenRenderer) MaxTextureSize() int  { return ebitenMaxTextureSize }

func (r *EbitenRenderer) CreateBuffer(vertexCap, indexCap int) (Buffer, error) {
	if vertexCap <= 0 || indexCap <= 0 {
		return nil, fmt.Errorf("thicket: buffer capacity %d/%d: %w", vertexCap, indexCap, ErrInvalidConfig)
	}
	return &ebitenBuffer{
		vertices: make([]Vertex, 0, vertexCap),
		indices:  make([]uint32, 0, indexCap),
	}, nil
}

func (r *EbitenRenderer) BindTexture(slot int, tex Texture) {
	if slot < 0 || slot >= ebitenTextureSlots {
		panic(fmt.Sprintf("thicket: texture slot %d out of range", slot))
	}
	r.slots[slot] = tex
}

func (r *EbitenRenderer) SetPalette(colors []Color) {
	r.palette = append(r.palette[:0], colors...)
}

// SetMatrix accepts UniformViewProjection; other names are ignored.
func (r *EbitenRenderer) SetMatrix(name string, m Matrix) {
	if name == UniformViewProjection {
		r.vp = m
	}
}

func (r *EbitenRenderer) DrawIndexed(buf Buffer, indexCount int) {
	b := buf.(*ebitenBuffer)
	if r.target == nil || indexCount == 0 {
		return
	}
	bounds := r.target.Bounds()
	tw := float64(bounds.Dx())
	th := float64(bounds.Dy())

	if cap(r.verts) < len(b.vertices) {
		r.verts = make([]ebiten.Vertex, len(b.vertices))
	}
	r.verts = r.verts[:len(b.vertices)]
	for i := range b.vertices {
		r.verts[i] = r.convert(&b.vertices[i], tw, th)
	}

	indices := b.indices[:indexCount]
	for start := 0; start < len(indices); {
		slot := b.vertices[indices[start]].Slot
		end := start + 3
		for end < len(indices) && b.vertices[indices[end]].Slot == slot {
			end += 3
		}
		if img := r.imageFor(slot); img != nil {
			r.target.DrawTriangles32(r.verts, indices[start:end], img, &r.op)
		}
		start = end
	}
}

func (r *EbitenRenderer) convert(v *Vertex, tw, th float64) ebiten.Vertex {
	nx, ny := r.vp.Apply(float64(v.X), float64(v.Y))

	srcX, srcY := float32(0.5), float32(0.5)
	if v.Slot >= 0 {
		if tex := r.slots[int(v.Slot)]; tex != nil {
			w, h := tex.Size()
			srcX = v.U * float32(w)
			srcY = v.V * float32(h)
		}
	}

	c := Color{float64(v.R), float64(v.G), float64(v.B), float64(v.A)}
	if v.Palette >= 0 && int(v.Palette) < len(r.palette) {
		c = r.palette[int(v.Palette)]
	}
	a := float32(c.A)
	return ebiten.Vertex{
		DstX:   float32((nx + 1) / 2 * tw),
		DstY:   float32((1 - ny) / 2 * th),
		SrcX:   srcX,
		SrcY:   srcY,
		ColorR: float32(c.R) * a,
		ColorG: float32(c.G) * a,
		ColorB: float32(c.B) * a,
		ColorA: a,
	}
}

func (r *EbitenRenderer) imageFor(slot float32) *ebiten.Image {
	if slot < 0 {
		return ensureWhitePixel()
	}
	src, ok := r.slots[int(slot)].(imageSource)
	if !ok {
		return nil
	}
	return src.Image()
}

type ebitenBuffer struct {
	vertices []Vertex
	indices  []uint32
}

func (b *ebitenBuffer) SetData(vertices []Vertex, indices []uint32) {
	b.vertices = append(b.vertices[:0], vertices...)
	b.indices = append(b.indices[:0], indices...)
}

func (b *ebitenBuffer) Release() {
	b.vertices = nil
	b.indices = nil
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

var (
	_ Renderer = (*EbitenRenderer)(nil)
	_ Renderer = (*RecordingRenderer)(nil)
)
