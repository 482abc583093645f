package thicket

import (
	"fmt"
	"time"
)

// globalDebug mirrors the most recently applied scheduler Debug flag so that
// node and shape operations (which lack a scheduler pointer) can check it
// cheaply. Only valid with a single scheduler.
var globalDebug bool

// FrameStats holds per-frame draw-call and batching metrics. Returned by
// EndFrame; logged when debug mode is on.
type FrameStats struct {
	Submitted     int           // primitives passed to Submit
	Culled        int           // skipped because outside the camera bounds
	Skipped       int           // skipped because they produced no triangles
	Overflows     int           // flush+clear+retry cycles triggered by TryAdd
	DrawCalls     int           // DrawIndexed calls issued this frame
	StaticBatches int           // static batches drawn in BeginFrame
	Vertices      int           // vertices drawn
	Indices       int           // indices drawn
	TextureBinds  int           // texture slots bound
	SubmitTime    time.Duration // time spent inside Submit
	FrameTime     time.Duration // BeginFrame to EndFrame
}

// debugLog writes the frame stats at debug level.
func (s *BatchScheduler) debugLog(stats FrameStats) {
	if !s.config.Debug {
		return
	}
	getLogger().Debug("frame",
		"submitted", stats.Submitted,
		"culled", stats.Culled,
		"skipped", stats.Skipped,
		"overflows", stats.Overflows,
		"draws", stats.DrawCalls,
		"static", stats.StaticBatches,
		"vertices", stats.Vertices,
		"indices", stats.Indices,
		"textures", stats.TextureBinds,
		"submit", stats.SubmitTime,
		"total", stats.FrameTime,
	)
}

// debugCheckTreeDepth warns if a transform chain exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *TransformNode) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		getLogger().Warn("transform depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckDisposed panics when a disposed object is used in debug mode.
func debugCheckDisposed(disposed bool, what, op string) {
	if disposed {
		panic(fmt.Sprintf("thicket debug: %s on disposed %s", op, what))
	}
}
