package thicket

import "fmt"

// UniformViewProjection is the matrix name batches set before drawing.
const UniformViewProjection = "viewProjection"

// Renderer is the GPU-side collaborator of the batching layer.
type Renderer interface {
	// MaxTextureSlots is the number of texture units one draw may bind.
	// Zero means unknown.
	MaxTextureSlots() int
	// MaxTextureSize is the largest texture dimension supported.
	MaxTextureSize() int
	// CreateBuffer allocates vertex and index storage of fixed capacity.
	CreateBuffer(vertexCap, indexCap int) (Buffer, error)
	BindTexture(slot int, tex Texture)
	SetPalette(colors []Color)
	SetMatrix(name string, m Matrix)
	// DrawIndexed draws the first indexCount indices of buf.
	DrawIndexed(buf Buffer, indexCount int)
}

// Buffer holds one batch's vertex and index data on the renderer side.
type Buffer interface {
	SetData(vertices []Vertex, indices []uint32)
	Release()
}

// --- RecordingRenderer ---

// DrawRecord is one DrawIndexed call captured by RecordingRenderer.
type DrawRecord struct {
	Vertices []Vertex
	Indices  []uint32
	Textures []Texture // bindings made since the previous draw, by slot
	Palette  []Color
	Matrix   Matrix
}

// RecordingRenderer is a headless Renderer that records every call. It is
// used by tests and by programs that batch without a window.
type RecordingRenderer struct {
	Slots       int
	TextureSize int

	// CreateErr, when set, is returned by CreateBuffer.
	CreateErr error

	Buffers []*RecordedBuffer
	Draws   []DrawRecord

	pending  []Texture
	palette  []Color
	matrices map[string]Matrix
}

// NewRecordingRenderer returns a recorder reporting the given limits.
func NewRecordingRenderer(slots, textureSize int) *RecordingRenderer {
	return &RecordingRenderer{
		Slots:       slots,
		TextureSize: textureSize,
		matrices:    make(map[string]Matrix),
	}
}

func (r *RecordingRenderer) MaxTextureSlots() int { return r.Slots }
func (r *RecordingRenderer) MaxTextureSize() int  { return r.TextureSize }

// CreateBuffer returns a RecordedBuffer unless CreateErr is set.
func (r *RecordingRenderer) CreateBuffer(vertexCap, indexCap int) (Buffer, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	b := &RecordedBuffer{VertexCap: vertexCap, IndexCap: indexCap}
	r.Buffers = append(r.Buffers, b)
	return b, nil
}

func (r *RecordingRenderer) BindTexture(slot int, tex Texture) {
	for len(r.pending) <= slot {
		r.pending = append(r.pending, nil)
	}
	r.pending[slot] = tex
}

func (r *RecordingRenderer) SetPalette(colors []Color) {
	r.palette = append(r.palette[:0], colors...)
}

func (r *RecordingRenderer) SetMatrix(name string, m Matrix) {
	if r.matrices == nil {
		r.matrices = make(map[string]Matrix)
	}
	r.matrices[name] = m
}

// Matrix returns the last value set for name.
func (r *RecordingRenderer) Matrix(name string) (Matrix, bool) {
	m, ok := r.matrices[name]
	return m, ok
}

func (r *RecordingRenderer) DrawIndexed(buf Buffer, indexCount int) {
	b, ok := buf.(*RecordedBuffer)
	if !ok {
		panic(fmt.Sprintf("thicket: RecordingRenderer cannot draw %T", buf))
	}
	if indexCount > len(b.indices) {
		panic(fmt.Sprintf("thicket: draw of %d indices exceeds %d uploaded", indexCount, len(b.indices)))
	}
	rec := DrawRecord{
		Vertices: append([]Vertex(nil), b.vertices...),
		Indices:  append([]uint32(nil), b.indices[:indexCount]...),
		Textures: r.pending,
		Matrix:   r.matrices[UniformViewProjection],
	}
	if len(r.palette) > 0 {
		rec.Palette = append([]Color(nil), r.palette...)
	}
	r.pending = nil
	r.Draws = append(r.Draws, rec)
}

// Reset forgets recorded draws; buffers are kept.
func (r *RecordingRenderer) Reset() {
	r.Draws = r.Draws[:0]
	r.pending = nil
}

// RecordedBuffer is the Buffer handed out by RecordingRenderer.
type RecordedBuffer struct {
	VertexCap int
	IndexCap  int
	Uploads   int
	Released  bool

	vertices []Vertex
	indices  []uint32
}

// SetData copies the data. Exceeding the buffer's capacity panics.
func (b *RecordedBuffer) SetData(vertices []Vertex, indices []uint32) {
	if b.Released {
		panic("thicket: SetData on released buffer")
	}
	if len(vertices) > b.VertexCap || len(indices) > b.IndexCap {
		panic(fmt.Sprintf("thicket: buffer overflow: %d/%d vertices, %d/%d indices",
			len(vertices), b.VertexCap, len(indices), b.IndexCap))
	}
	b.vertices = append(b.vertices[:0], vertices...)
	b.indices = append(b.indices[:0], indices...)
	b.Uploads++
}

func (b *RecordedBuffer) Release() {
	b.Released = true
	b.vertices = nil
	b.indices = nil
}
