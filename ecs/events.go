package ecs

import (
	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FlushEventType is the Donburi event type for batch flushes. Subscribe to
// it in ECS systems to observe draw calls.
var FlushEventType = events.NewEventType[thicket.FlushInfo]()

type flushPublisher struct {
	world donburi.World
}

// NewFlushPublisher returns a FlushObserver that publishes every flush to
// FlushEventType in world. Events are queued until ProcessEvents.
func NewFlushPublisher(world donburi.World) thicket.FlushObserver {
	return &flushPublisher{world: world}
}

func (p *flushPublisher) OnFlush(info thicket.FlushInfo) {
	FlushEventType.Publish(p.world, info)
}
