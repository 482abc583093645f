package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

type pendingDraw struct {
	layer  int
	entity donburi.Entity
	prim   thicket.Primitive
}

// SubmitSystem feeds every visible Drawable into a BatchScheduler.
//
// Call Draw between BeginFrame and EndFrame. Static drawables go to the
// static pool instead. The system remembers which entities it captured
// there and takes them back out once they are hidden, removed, no longer
// static or cleared by the scheduler. After the first Draw this happens at
// the start of every BeginFrame, so changes show in the very next frame.
type SubmitSystem struct {
	scheduler *thicket.BatchScheduler
	query     *donburi.Query
	pending   []pendingDraw

	world     donburi.World
	static    map[donburi.Entity]thicket.Primitive
	staticGen uint64
	staticErr error
}

// NewSubmitSystem returns a system submitting into s.
func NewSubmitSystem(s *thicket.BatchScheduler) *SubmitSystem {
	sys := newSubmitSystem(s)
	s.OnBeginFrame(sys.beforeFrame)
	return sys
}

func newSubmitSystem(s *thicket.BatchScheduler) *SubmitSystem {
	return &SubmitSystem{
		scheduler: s,
		query: donburi.NewQuery(filter.And(
			filter.Contains(Drawable),
			filter.Not(filter.Contains(Hidden)),
		)),
		static:    make(map[donburi.Entity]thicket.Primitive),
		staticGen: s.StaticGeneration(),
	}
}

func (sys *SubmitSystem) beforeFrame() {
	if sys.world == nil {
		return
	}
	if err := sys.syncStatic(sys.world); err != nil {
		sys.staticErr = errors.Join(sys.staticErr, err)
	}
}

// Update brings the static pool in line with world. Draw does the same, so
// calling it is only needed when the world changes without a Draw.
func (sys *SubmitSystem) Update(world donburi.World) error {
	sys.world = world
	return sys.syncStatic(world)
}

// Draw submits the world's drawables in layer order. Every entity is
// attempted; the returned error joins the failures.
func (sys *SubmitSystem) Draw(world donburi.World) error {
	sys.world = world
	errs := []error{sys.staticErr, sys.syncStatic(world)}
	sys.staticErr = nil

	sys.pending = sys.pending[:0]
	sys.query.Each(world, func(entry *donburi.Entry) {
		d := Drawable.Get(entry)
		if d.Primitive == nil || d.Static {
			return
		}
		sys.pending = append(sys.pending, pendingDraw{layer: d.Layer, entity: entry.Entity(), prim: d.Primitive})
	})

	slices.SortStableFunc(sys.pending, func(a, b pendingDraw) int {
		return cmp.Compare(a.layer, b.layer)
	})
	for _, p := range sys.pending {
		if err := sys.scheduler.Submit(p.prim); err != nil {
			errs = append(errs, fmt.Errorf("entity %v: %w", p.entity, err))
		}
	}
	clear(sys.pending)
	return errors.Join(errs...)
}

// syncStatic drops captures that are no longer visible static drawables
// and captures new ones.
func (sys *SubmitSystem) syncStatic(world donburi.World) error {
	if gen := sys.scheduler.StaticGeneration(); gen != sys.staticGen {
		sys.staticGen = gen
		clear(sys.static)
	}
	var stale []thicket.Primitive
	for e, p := range sys.static {
		if !staticVisible(world, e, p) {
			stale = append(stale, p)
			delete(sys.static, e)
		}
	}
	if len(stale) > 0 {
		sys.scheduler.RemoveStatic(stale...)
	}

	var errs []error
	sys.query.Each(world, func(entry *donburi.Entry) {
		d := Drawable.Get(entry)
		if d.Primitive == nil || !d.Static {
			return
		}
		if _, ok := sys.static[entry.Entity()]; ok {
			return
		}
		if err := sys.scheduler.SubmitStatic(d.Primitive); err != nil {
			errs = append(errs, fmt.Errorf("entity %v: %w", entry.Entity(), err))
			return
		}
		sys.static[entry.Entity()] = d.Primitive
	})
	return errors.Join(errs...)
}

// staticVisible reports whether e still shows p as a visible static drawable.
func staticVisible(world donburi.World, e donburi.Entity, p thicket.Primitive) bool {
	if !world.Valid(e) {
		return false
	}
	entry := world.Entry(e)
	if !entry.HasComponent(Drawable) || entry.HasComponent(Hidden) {
		return false
	}
	d := Drawable.Get(entry)
	return d.Static && d.Primitive == p
}

// SubmitAll runs a one-off SubmitSystem over world. Static drawables it
// captures are not tracked afterwards; keep a SubmitSystem for those.
func SubmitAll(world donburi.World, s *thicket.BatchScheduler) error {
	return newSubmitSystem(s).Draw(world)
}
