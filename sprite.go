package thicket

import (
	"fmt"
	"image"
)

// Sprite is a textured quad centered on its transform origin.
type Sprite struct {
	shapeBase
	width, height float64
	region        Rect
	rotated       bool // region is stored 90 degrees clockwise
	flipX, flipY  bool
	ownsTexture   bool
}

// NewSprite creates a w by h sprite showing the whole of tex. The texture is
// borrowed; Destroy leaves it alone.
func NewSprite(tex Texture, w, h float64) *Sprite {
	if tex == nil {
		panic("thicket: sprite texture cannot be nil")
	}
	checkDimension("sprite width", w)
	checkDimension("sprite height", h)
	s := &Sprite{width: w, height: h, region: Rect{Width: 1, Height: 1}}
	s.init(s, "sprite")
	s.texture = tex
	return s
}

// NewSpriteFromImage uploads img into a texture owned by the sprite and
// sizes the sprite to the image's pixel dimensions.
func NewSpriteFromImage(img image.Image) *Sprite {
	tex := TextureFromImage(img)
	w, h := tex.Size()
	s := NewSprite(tex, float64(w), float64(h))
	s.ownsTexture = true
	return s
}

// Size returns the sprite's width and height in world units.
func (s *Sprite) Size() (float64, float64) { return s.width, s.height }

// SetSize changes the quad dimensions.
func (s *Sprite) SetSize(w, h float64) {
	checkDimension("sprite width", w)
	checkDimension("sprite height", h)
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.invalidate()
}

// SetTexture swaps the texture. An owned texture is disposed first.
func (s *Sprite) SetTexture(tex Texture) {
	if tex == nil {
		panic("thicket: sprite texture cannot be nil")
	}
	if tex == s.texture {
		return
	}
	if s.ownsTexture {
		s.texture.Dispose()
		s.ownsTexture = false
	}
	s.texture = tex
}

// Region returns the normalized UV rectangle shown by the sprite.
func (s *Sprite) Region() Rect { return s.region }

// SetRegion selects a normalized sub-rectangle of the texture, with (0, 0)
// at the image's top-left. Used for atlas frames.
func (s *Sprite) SetRegion(r Rect) {
	if r.Width < 0 || r.Height < 0 {
		panic(fmt.Sprintf("thicket: sprite region must not be negative, got %vx%v", r.Width, r.Height))
	}
	if r == s.region {
		return
	}
	s.region = r
	s.invalidate()
}

// SetRegionPixels selects a sub-rectangle in texture pixels.
func (s *Sprite) SetRegionPixels(x, y, w, h int) {
	tw, th := s.texture.Size()
	if tw == 0 || th == 0 {
		return
	}
	s.SetRegion(Rect{
		X:      float64(x) / float64(tw),
		Y:      float64(y) / float64(th),
		Width:  float64(w) / float64(tw),
		Height: float64(h) / float64(th),
	})
}

// Rotated reports whether the region is sampled as stored 90 degrees
// clockwise.
func (s *Sprite) Rotated() bool { return s.rotated }

// SetRotated marks the region as stored 90 degrees clockwise, the way
// texture packers rotate frames to save space.
func (s *Sprite) SetRotated(rotated bool) {
	if rotated == s.rotated {
		return
	}
	s.rotated = rotated
	s.invalidate()
}

// Flip returns the horizontal and vertical flip flags.
func (s *Sprite) Flip() (bool, bool) { return s.flipX, s.flipY }

// SetFlip mirrors the texture coordinates. Positions are unaffected.
func (s *Sprite) SetFlip(x, y bool) {
	if x == s.flipX && y == s.flipY {
		return
	}
	s.flipX, s.flipY = x, y
	s.invalidate()
}

// Destroy releases the owned transform and, if the sprite owns it, the
// texture.
func (s *Sprite) Destroy() {
	if s.destroyed {
		return
	}
	s.shapeBase.Destroy()
	if s.ownsTexture {
		s.texture.Dispose()
		s.ownsTexture = false
	}
}

func (s *Sprite) kind() string { return "sprite" }

func (s *Sprite) buildLocal(pos, uv []Vec2) ([]Vec2, []Vec2) {
	hw, hh := s.width/2, s.height/2
	pos = append(pos,
		Vec2{-hw, -hh},
		Vec2{hw, -hh},
		Vec2{hw, hh},
		Vec2{-hw, hh},
	)

	u0, u1 := s.region.X, s.region.X+s.region.Width
	v0, v1 := s.region.Y, s.region.Y+s.region.Height
	if s.rotated {
		// Sprite x runs down the stored region, sprite y runs left to right.
		if s.flipX {
			v0, v1 = v1, v0
		}
		if s.flipY {
			u0, u1 = u1, u0
		}
		uv = append(uv, Vec2{u0, v0}, Vec2{u0, v1}, Vec2{u1, v1}, Vec2{u1, v0})
		return pos, uv
	}
	if s.flipX {
		u0, u1 = u1, u0
	}
	if s.flipY {
		v0, v1 = v1, v0
	}
	uv = append(uv, Vec2{u0, v1}, Vec2{u1, v1}, Vec2{u1, v0}, Vec2{u0, v0})
	return pos, uv
}

func (s *Sprite) buildIndices(dst []uint32, _ []Vec2) ([]uint32, error) {
	return append(dst, quadIndices[:]...), nil
}

var _ Shape = (*Sprite)(nil)
