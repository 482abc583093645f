package thicket

import "errors"

var (
	// ErrPrimitiveTooLarge is returned when a primitive needs more vertices,
	// indices or texture slots than an empty batch provides. Batch capacities
	// must be configured for the largest expected primitive.
	ErrPrimitiveTooLarge = errors.New("thicket: primitive exceeds batch capacity")

	// ErrNotInFrame is returned by Submit outside BeginFrame/EndFrame.
	ErrNotInFrame = errors.New("thicket: submit outside of a frame")

	ErrFrameInProgress = errors.New("thicket: frame already in progress")

	// ErrDestroyed is returned by schedulers used after Destroy.
	ErrDestroyed = errors.New("thicket: scheduler destroyed")

	// ErrDegeneratePolygon is returned by Triangulate for fewer than three
	// points or a polygon with zero area.
	ErrDegeneratePolygon = errors.New("thicket: degenerate polygon")

	// ErrSelfIntersecting is returned by Triangulate for polygons whose
	// edges cross.
	ErrSelfIntersecting = errors.New("thicket: self-intersecting polygon")

	ErrInvalidConfig = errors.New("thicket: invalid config")
	ErrConfigFormat  = errors.New("thicket: unknown config format")
)
