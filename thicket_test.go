package thicket

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"bottom-left corner", 10, 20, true},
		{"top-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"right edge", 110, 40, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside below", 50, 19, false},
		{"outside above", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"adjacent left", Rect{-50, 10, 60, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint below", Rect{10, -100, 50, 50}, false},
		{"disjoint above", Rect{10, 111, 50, 50}, false},
		{"zero-size at corner", Rect{110, 110, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

// --- Color ---

func TestColorWhite(t *testing.T) {
	if ColorWhite != (Color{1, 1, 1, 1}) {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
}

func TestColorFromRGBA(t *testing.T) {
	c := ColorFromRGBA(color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	assertNear(t, "R", c.R, 1)
	assertNear(t, "G", c.G, 0)
	if c.A < 0.5 || c.A > 0.51 {
		t.Errorf("A = %v, want ~0.5", c.A)
	}
	if got := ColorFromRGBA(color.Transparent); got != (Color{}) {
		t.Errorf("transparent = %v", got)
	}
}

func TestColorFromName(t *testing.T) {
	c, ok := ColorFromName("CornflowerBlue")
	if !ok {
		t.Fatal("cornflowerblue should be known")
	}
	if c.A != 1 || c.B <= c.R {
		t.Errorf("cornflowerblue = %v", c)
	}
	if _, ok := ColorFromName("notacolor"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0.2, A: 0.5}.toRGBA()
	want := color.RGBA{R: 127, G: 63, B: 25, A: 127}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}

// --- Enums ---

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{PoolDynamic.String(), "dynamic"},
		{PoolStatic.String(), "static"},
		{PoolKind(9).String(), "unknown"},
		{TextureDedup.String(), "dedup"},
		{TexturePerPrimitive.String(), "per-primitive"},
		{ColorVertex.String(), "vertex"},
		{ColorPalette.String(), "palette"},
		{BlendMultiply.String(), "multiply"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEnumValues(t *testing.T) {
	if TextureDedup != 0 || ColorVertex != 0 || PoolDynamic != 0 {
		t.Error("zero values must be the defaults")
	}
	if BlendNormal != 0 || BlendNone != 7 {
		t.Errorf("BlendNormal = %d, BlendNone = %d", BlendNormal, BlendNone)
	}
}

// --- BlendMode.EbitenBlend ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		expect ebiten.Blend
	}{
		{BlendNormal, ebiten.BlendSourceOver},
		{BlendAdd, ebiten.BlendLighter},
		{BlendErase, ebiten.BlendDestinationOut},
		{BlendBelow, ebiten.BlendDestinationOver},
		{BlendNone, ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.EbitenBlend(); got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.mode, got, tt.expect)
			}
		})
	}

	zero := ebiten.Blend{}
	for _, mode := range []BlendMode{BlendMultiply, BlendScreen, BlendMask} {
		if mode.EbitenBlend() == zero {
			t.Errorf("%s.EbitenBlend() returned zero blend", mode)
		}
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkRectIntersects(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	other := Rect{50, 40, 80, 60}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Intersects(other)
	}
}
