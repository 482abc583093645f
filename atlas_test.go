package thicket

import (
	"errors"
	"strings"
	"testing"
)

// --- Test JSON fixtures ---

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 32, "h": 48},
      "sourceSize": {"w": 32, "h": 48}
    },
    "trimmed.png": {
      "frame": {"x": 100, "y": 50, "w": 60, "h": 58},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 2, "y": 3, "w": 60, "h": 58},
      "sourceSize": {"w": 64, "h": 64}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
      "sourceSize": {"w": 32, "h": 48}
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 1024, "h": 1024}
  }
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "frames": {
        "page0_sprite.png": {
          "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
          "sourceSize": {"w": 64, "h": 64}
        }
      }
    },
    {
      "image": "atlas-1.png",
      "frames": {
        "page1_sprite.png": {
          "frame": {"x": 10, "y": 20, "w": 50, "h": 50},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 50, "h": 50},
          "sourceSize": {"w": 50, "h": 50}
        }
      }
    }
  ]
}`

// --- LoadAtlas tests ---

func loadSinglePage(t *testing.T) (*Atlas, *fakeTexture) {
	t.Helper()
	page := newFakeTexture(1024, 1024)
	a, err := LoadAtlas([]byte(singlePageJSON), []Texture{page})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	return a, page
}

func TestLoadAtlas_SinglePage(t *testing.T) {
	a, _ := loadSinglePage(t)
	if a.Len() != 4 {
		t.Errorf("frame count = %d, want 4", a.Len())
	}
	names := a.Names()
	if names[0] != "enemy.png" || names[3] != "trimmed.png" {
		t.Errorf("Names = %v, want sorted", names)
	}
}

func TestLoadAtlas_FrameLookup(t *testing.T) {
	a, _ := loadSinglePage(t)
	f, ok := a.Frame("enemy.png")
	if !ok {
		t.Fatal("enemy.png not found")
	}
	if f.X != 64 || f.Y != 0 || f.Width != 32 || f.Height != 48 {
		t.Errorf("enemy frame = %+v", f)
	}
	if _, ok := a.Frame("nope.png"); ok {
		t.Error("missing frame should not be found")
	}
}

func TestLoadAtlas_TrimmedFrame(t *testing.T) {
	a, _ := loadSinglePage(t)
	f, _ := a.Frame("trimmed.png")
	if f.SourceW != 64 || f.SourceH != 64 || f.OffsetX != 2 || f.OffsetY != 3 {
		t.Errorf("trimmed frame = %+v", f)
	}
}

func TestLoadAtlas_RotatedFrame(t *testing.T) {
	a, _ := loadSinglePage(t)
	f, _ := a.Frame("rotated.png")
	if !f.Rotated || f.Width != 48 || f.Height != 32 {
		t.Errorf("rotated frame = %+v", f)
	}
	if w, h := f.Size(); w != 32 || h != 48 {
		t.Errorf("Size = %dx%d, want 32x48", w, h)
	}
}

func TestLoadAtlas_MultiPage(t *testing.T) {
	page0, page1 := newFakeTexture(512, 512), newFakeTexture(512, 512)
	a, err := LoadAtlas([]byte(multiPageJSON), []Texture{page0, page1})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("frame count = %d, want 2", a.Len())
	}
	f, _ := a.Frame("page1_sprite.png")
	if f.Page != 1 || f.X != 10 || f.Y != 20 {
		t.Errorf("page1 frame = %+v", f)
	}

	s, err := a.NewSprite("page1_sprite.png", 1)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}
	if s.Texture() != page1 {
		t.Error("sprite should use the second page")
	}
}

func TestLoadAtlas_InvalidJSON(t *testing.T) {
	if _, err := LoadAtlas([]byte(`{invalid`), nil); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestLoadAtlas_NoFramesOrTextures(t *testing.T) {
	_, err := LoadAtlas([]byte(`{"meta":{}}`), nil)
	if err == nil {
		t.Fatal("expected error for JSON with no frames/textures, got nil")
	}
	if !strings.Contains(err.Error(), "neither") {
		t.Errorf("error message = %q, want mention of neither", err.Error())
	}
}

// --- Sprites from frames ---

func TestAtlasNewSprite(t *testing.T) {
	a, page := loadSinglePage(t)
	s, err := a.NewSprite("enemy.png", 2)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}
	if w, h := s.Size(); w != 64 || h != 96 {
		t.Errorf("Size = %vx%v, want 64x96", w, h)
	}
	if s.Texture() != page {
		t.Error("sprite should borrow the page texture")
	}
	r := s.Region()
	assertNear(t, "region.X", r.X, 64.0/1024)
	assertNear(t, "region.Width", r.Width, 32.0/1024)
	assertNear(t, "region.Height", r.Height, 48.0/1024)

	s.Destroy()
	if page.disposed {
		t.Error("page texture must outlive atlas sprites")
	}
}

func TestAtlasRotatedSpriteUVs(t *testing.T) {
	a, _ := loadSinglePage(t)
	s, err := a.NewSprite("rotated.png", 1)
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}
	if w, h := s.Size(); w != 32 || h != 48 {
		t.Fatalf("Size = %vx%v, want 32x48", w, h)
	}
	u0, u1 := 200.0/1024, 248.0/1024
	v0, v1 := 0.0, 32.0/1024
	verts := s.Vertices()
	// Bottom-left samples the stored top-left, top-left the stored top-right.
	assertNear(t, "BL.u", float64(verts[0].U), float64(float32(u0)))
	assertNear(t, "BL.v", float64(verts[0].V), v0)
	assertNear(t, "BR.v", float64(verts[1].V), float64(float32(v1)))
	assertNear(t, "TL.u", float64(verts[3].U), float64(float32(u1)))
	assertNear(t, "TL.v", float64(verts[3].V), v0)
}

func TestAtlasApply(t *testing.T) {
	a, page := loadSinglePage(t)
	s := NewSprite(newFakeTexture(8, 8), 10, 10)
	if err := a.Apply(s, "rotated.png"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Texture() != page || !s.Rotated() {
		t.Error("Apply should switch texture and rotation")
	}
	if w, h := s.Size(); w != 10 || h != 10 {
		t.Errorf("Apply changed size to %vx%v", w, h)
	}
	if err := a.Apply(s, "hero.png"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Rotated() {
		t.Error("unrotated frame should clear rotation")
	}
}

func TestAtlasMissingFrame(t *testing.T) {
	a, _ := loadSinglePage(t)
	if _, err := a.NewSprite("ghost.png", 1); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("err = %v, want ErrFrameNotFound", err)
	}
	s := NewSprite(newFakeTexture(8, 8), 1, 1)
	if err := a.Apply(s, "ghost.png"); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("err = %v, want ErrFrameNotFound", err)
	}
}

func TestAtlasMissingPage(t *testing.T) {
	a, err := LoadAtlas([]byte(multiPageJSON), []Texture{newFakeTexture(512, 512)})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if _, err := a.NewSprite("page1_sprite.png", 1); err == nil {
		t.Error("expected error for frame on a missing page")
	}
}

// --- Benchmarks ---

func BenchmarkLoadAtlas_SinglePage(b *testing.B) {
	data := []byte(singlePageJSON)
	pages := []Texture{newFakeTexture(1024, 1024)}
	b.ReportAllocs()
	for b.Loop() {
		_, _ = LoadAtlas(data, pages)
	}
}

func BenchmarkAtlas_Frame_Hit(b *testing.B) {
	a, _ := LoadAtlas([]byte(singlePageJSON), []Texture{newFakeTexture(1024, 1024)})
	b.ReportAllocs()
	for b.Loop() {
		_, _ = a.Frame("hero.png")
	}
}
