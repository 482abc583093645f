package ecs

import (
	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
)

// DrawableData attaches a primitive to an entity.
type DrawableData struct {
	Primitive thicket.Primitive
	// Layer orders submission within a frame. Lower layers are submitted
	// first; ties keep entity order.
	Layer int
	// Static routes the primitive to the scheduler's static pool. A
	// SubmitSystem captures it once and removes it again when the entity is
	// hidden or destroyed.
	Static bool
}

// Drawable is the component holding DrawableData.
var Drawable = donburi.NewComponentType[DrawableData]()

// Hidden excludes an entity from submission without removing its
// Drawable. Static drawables already captured leave the static pool.
var Hidden = donburi.NewTag()

// destroyer is implemented by thicket shapes and sprites.
type destroyer interface {
	Destroy()
}

// NewDrawable creates an entity carrying p and returns it.
func NewDrawable(world donburi.World, p thicket.Primitive, layer int) donburi.Entity {
	e := world.Create(Drawable)
	Drawable.SetValue(world.Entry(e), DrawableData{Primitive: p, Layer: layer})
	return e
}

// DestroyDrawable removes the entity and destroys its primitive if the
// primitive supports it. Invalid entities are ignored.
func DestroyDrawable(world donburi.World, e donburi.Entity) {
	if !world.Valid(e) {
		return
	}
	entry := world.Entry(e)
	if entry.HasComponent(Drawable) {
		if d, ok := Drawable.Get(entry).Primitive.(destroyer); ok {
			d.Destroy()
		}
	}
	world.Remove(e)
}
