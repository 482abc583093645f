package thicket

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is an image a batch can bind to a slot. IDs are unique per
// texture and used for slot deduplication.
type Texture interface {
	ID() uint32
	Size() (width, height int)
	Dispose()
}

var nextTextureID uint32

// allocTextureID returns a fresh texture ID. Single-threaded like node IDs.
func allocTextureID() uint32 {
	nextTextureID++
	return nextTextureID
}

// ImageTexture is a Texture backed by an *ebiten.Image.
type ImageTexture struct {
	id       uint32
	img      *ebiten.Image
	disposed bool
}

// NewImageTexture wraps img. The texture takes ownership: Dispose
// deallocates the image.
func NewImageTexture(img *ebiten.Image) *ImageTexture {
	if img == nil {
		panic("thicket: texture image cannot be nil")
	}
	return &ImageTexture{id: allocTextureID(), img: img}
}

// TextureFromImage uploads a decoded image into a new ImageTexture.
func TextureFromImage(src image.Image) *ImageTexture {
	return NewImageTexture(ebiten.NewImageFromImage(src))
}

// ID returns the texture's unique ID.
func (t *ImageTexture) ID() uint32 { return t.id }

// Size returns the image dimensions in pixels, or (0, 0) after Dispose.
func (t *ImageTexture) Size() (int, int) {
	if t.disposed {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image, or nil after Dispose.
func (t *ImageTexture) Image() *ebiten.Image {
	if t.disposed {
		return nil
	}
	return t.img
}

// Dispose deallocates the backing image. Safe to call more than once.
func (t *ImageTexture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.img.Deallocate()
}

// IsDisposed reports whether Dispose has been called.
func (t *ImageTexture) IsDisposed() bool { return t.disposed }
