package thicket

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrFrameNotFound is returned for atlas frame names that were not loaded.
var ErrFrameNotFound = errors.New("thicket: atlas frame not found")

// AtlasFrame describes a named sub-rectangle of an atlas page in pixels.
type AtlasFrame struct {
	Page          int
	X, Y          int // top-left corner within the page
	Width, Height int // stored size; swapped relative to the sprite when Rotated
	SourceW       int // untrimmed width as authored
	SourceH       int
	OffsetX       int // trim offset from the untrimmed top-left
	OffsetY       int
	Rotated       bool // stored 90 degrees clockwise
}

// Size returns the frame's on-screen size, undoing the packer rotation.
func (f AtlasFrame) Size() (int, int) {
	if f.Rotated {
		return f.Height, f.Width
	}
	return f.Width, f.Height
}

// Atlas holds page textures and the named frames packed into them.
type Atlas struct {
	Pages  []Texture
	frames map[string]AtlasFrame
}

// LoadAtlas parses TexturePacker JSON and associates the given page
// textures. Both the hash format (one "frames" object) and the array format
// ("textures" with per-page frame lists) are accepted.
func LoadAtlas(jsonData []byte, pages []Texture) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("thicket: parse atlas json: %w", err)
	}

	a := &Atlas{Pages: pages, frames: make(map[string]AtlasFrame)}
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("thicket: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			a.addFrames(tex.Frames, i)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("thicket: parse atlas frames: %w", err)
		}
		a.addFrames(frames, 0)
	default:
		return nil, errors.New(`thicket: atlas json has neither "frames" nor "textures"`)
	}

	getLogger().Debug("atlas loaded", "frames", len(a.frames), "pages", len(pages))
	return a, nil
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) {
	for name, f := range frames {
		a.frames[name] = AtlasFrame{
			Page:    page,
			X:       f.Frame.X,
			Y:       f.Frame.Y,
			Width:   f.Frame.W,
			Height:  f.Frame.H,
			SourceW: f.SourceSize.W,
			SourceH: f.SourceSize.H,
			OffsetX: f.SpriteSourceSize.X,
			OffsetY: f.SpriteSourceSize.Y,
			Rotated: f.Rotated,
		}
	}
}

// Len returns the number of frames.
func (a *Atlas) Len() int { return len(a.frames) }

// Names returns the frame names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.frames))
	for name := range a.frames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Frame looks up a frame by name.
func (a *Atlas) Frame(name string) (AtlasFrame, bool) {
	f, ok := a.frames[name]
	return f, ok
}

// Apply points s at the named frame: page texture, region and rotation.
// The sprite's size is left alone, which keeps animation frames of
// different trim sizes from jittering.
func (a *Atlas) Apply(s *Sprite, name string) error {
	f, tex, err := a.resolve(name)
	if err != nil {
		return err
	}
	s.SetTexture(tex)
	s.SetRotated(f.Rotated)
	s.SetRegionPixels(f.X, f.Y, f.Width, f.Height)
	return nil
}

// NewSprite creates a sprite showing the named frame at its pixel size
// multiplied by scale. The page texture is borrowed.
func (a *Atlas) NewSprite(name string, scale float64) (*Sprite, error) {
	f, tex, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	w, h := f.Size()
	s := NewSprite(tex, float64(w)*scale, float64(h)*scale)
	s.SetRotated(f.Rotated)
	s.SetRegionPixels(f.X, f.Y, f.Width, f.Height)
	return s, nil
}

func (a *Atlas) resolve(name string) (AtlasFrame, Texture, error) {
	f, ok := a.frames[name]
	if !ok {
		if globalDebug {
			getLogger().Warn("atlas frame not found", "frame", name)
		}
		return AtlasFrame{}, nil, fmt.Errorf("%w: %q", ErrFrameNotFound, name)
	}
	if f.Page < 0 || f.Page >= len(a.Pages) || a.Pages[f.Page] == nil {
		return AtlasFrame{}, nil, fmt.Errorf("thicket: atlas frame %q references missing page %d", name, f.Page)
	}
	return f, a.Pages[f.Page], nil
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}
