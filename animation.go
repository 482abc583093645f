package thicket

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tweenKind uint8

const (
	tweenPosition tweenKind = iota
	tweenScale
	tweenRotation
	tweenColor
)

// TweenGroup animates up to four values of a transform or shape together.
// Create one with TweenPosition, TweenScale, TweenRotation or TweenColor and
// call Update(dt) each frame. Values go through the normal setters, so
// change ids advance and dependent caches rebuild. If the target transform
// is disposed the group stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	kind   tweenKind
	node   *TransformNode
	shape  Shape
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.node.IsDisposed() {
		g.Done = true
		return
	}

	var v [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		v[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	switch g.kind {
	case tweenPosition:
		g.node.SetPosition(v[0], v[1])
	case tweenScale:
		g.node.SetScale(v[0], v[1])
	case tweenRotation:
		g.node.SetRotation(v[0])
	case tweenColor:
		g.shape.SetColor(Color{R: v[0], G: v[1], B: v[2], A: v[3]})
	}
	g.Done = allDone
}

// TweenPosition moves node to (toX, toY) over duration seconds.
func TweenPosition(node *TransformNode, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := node.Position()
	g := &TweenGroup{count: 2, kind: tweenPosition, node: node}
	g.tweens[0] = gween.New(float32(p.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(p.Y), float32(toY), duration, fn)
	return g
}

// TweenScale scales node to (toSX, toSY) over duration seconds.
func TweenScale(node *TransformNode, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	s := node.Scale()
	g := &TweenGroup{count: 2, kind: tweenScale, node: node}
	g.tweens[0] = gween.New(float32(s.X), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(s.Y), float32(toSY), duration, fn)
	return g
}

// TweenRotation rotates node to the absolute angle to (radians).
func TweenRotation(node *TransformNode, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, kind: tweenRotation, node: node}
	g.tweens[0] = gween.New(float32(node.Rotation()), float32(to), duration, fn)
	return g
}

// TweenColor fades all four components of the shape's color to to. The
// group stops when the shape's transform is disposed.
func TweenColor(shape Shape, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := shape.Color()
	g := &TweenGroup{count: 4, kind: tweenColor, node: shape.Transform(), shape: shape}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), duration, fn)
	return g
}
