// Package ecs provides [Donburi] adapters for thicket's batch scheduler.
//
// Entities carry a [Drawable] component holding any [thicket.Primitive].
// A [SubmitSystem] walks them each frame and submits them in layer order;
// drawables flagged Static go to the static pool once and leave it when the
// entity is hidden or destroyed. Tag an entity with [Hidden] to skip it.
//
// Flushes can be observed from systems through [FlushEventType]:
//
//	sched.SetFlushObserver(ecs.NewFlushPublisher(world))
//	ecs.FlushEventType.Subscribe(world, onFlush)
//
// Usage:
//
//	sys := ecs.NewSubmitSystem(sched)
//	ecs.NewDrawable(world, thicket.NewRectangle(2, 1), 0)
//
//	sched.BeginFrame()
//	sys.Draw(world)
//	sched.EndFrame()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
