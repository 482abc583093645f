package thicket

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// FlushInfo describes one batch draw.
type FlushInfo struct {
	BatchID    uuid.UUID
	Pool       PoolKind
	Primitives int
	Vertices   int
	Indices    int
	Textures   int
}

// FlushObserver is notified after every batch draw.
type FlushObserver interface {
	OnFlush(info FlushInfo)
}

// FlushObserverFunc adapts a function to FlushObserver.
type FlushObserverFunc func(info FlushInfo)

// OnFlush calls f(info).
func (f FlushObserverFunc) OnFlush(info FlushInfo) { f(info) }

// BatchScheduler routes primitives into batch pools and decides when batches
// are drawn.
//
// The dynamic pool is one batch refilled every frame: when a primitive does
// not fit it is drawn, cleared and the add retried. The static pool keeps
// its batches across frames and grows a new batch instead of flushing; it is
// drawn first in every BeginFrame.
type BatchScheduler struct {
	renderer Renderer
	config   Config
	camera   *Camera2D
	observer FlushObserver
	hooks    []func()

	dynamic     *RenderBatch
	static      []*RenderBatch
	staticPrims []Primitive
	staticGen   uint64

	inFrame    bool
	frameStart time.Time
	stats      FrameStats
	destroyed  bool
}

// NewBatchScheduler validates cfg, applies its process-wide switches (log
// level, debug, face culling) and allocates the dynamic batch.
func NewBatchScheduler(r Renderer, cfg Config) (*BatchScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dyn, err := NewRenderBatch(r, PoolDynamic, cfg)
	if err != nil {
		return nil, err
	}
	s := &BatchScheduler{renderer: r, config: cfg, dynamic: dyn}
	s.applyGlobals()
	return s, nil
}

func (s *BatchScheduler) applyGlobals() {
	setLogLevel(s.config.LogLevel)
	globalDebug = s.config.Debug
	SetFaceCulling(s.config.FaceCulling)
}

// Config returns the active configuration.
func (s *BatchScheduler) Config() Config { return s.config }

// SetCamera sets the camera used for culling and every draw. Nil draws with
// the identity matrix.
func (s *BatchScheduler) SetCamera(cam *Camera2D) {
	s.camera = cam
}

// Camera returns the current camera, or nil if it was disposed.
func (s *BatchScheduler) Camera() *Camera2D {
	if s.camera != nil && s.camera.IsDisposed() {
		s.camera = nil
	}
	return s.camera
}

// SetFlushObserver installs o; nil removes it.
func (s *BatchScheduler) SetFlushObserver(o FlushObserver) {
	s.observer = o
}

// OnBeginFrame registers fn to run at the start of every BeginFrame,
// before the static pool is drawn. Hooks may add or remove static content.
func (s *BatchScheduler) OnBeginFrame(fn func()) {
	s.hooks = append(s.hooks, fn)
}

// InFrame reports whether BeginFrame has been called without EndFrame.
func (s *BatchScheduler) InFrame() bool { return s.inFrame }

// BeginFrame starts a frame and draws the static pool.
func (s *BatchScheduler) BeginFrame() error {
	if s.destroyed {
		return ErrDestroyed
	}
	if s.inFrame {
		return ErrFrameInProgress
	}
	s.inFrame = true
	s.frameStart = time.Now()
	s.stats = FrameStats{}
	for _, fn := range s.hooks {
		fn()
	}
	s.pruneStatic()
	for _, b := range s.static {
		if s.draw(b) {
			s.stats.StaticBatches++
		}
	}
	return nil
}

// Submit adds p to the dynamic pool. A full batch is drawn and cleared
// before retrying. Primitives outside the camera's visible bounds (when
// culling is enabled) and primitives without indices are skipped.
func (s *BatchScheduler) Submit(p Primitive) error {
	if !s.inFrame {
		return ErrNotInFrame
	}
	start := time.Now()
	defer func() { s.stats.SubmitTime += time.Since(start) }()

	s.stats.Submitted++
	if s.culled(p) {
		s.stats.Culled++
		return nil
	}
	if len(p.Indices()) == 0 {
		s.stats.Skipped++
		if s.config.Debug {
			getLogger().Debug("skipping primitive without triangles", "vertices", len(p.Vertices()))
		}
		return nil
	}
	if s.dynamic.TryAdd(p) {
		return nil
	}
	if !s.dynamic.Fits(p) {
		return tooLarge(p, s.dynamic.Capacity())
	}

	s.stats.Overflows++
	s.draw(s.dynamic)
	s.dynamic.Clear()
	if !s.dynamic.TryAdd(p) {
		return tooLarge(p, s.dynamic.Capacity())
	}
	return nil
}

// SubmitStatic adds p to the static pool. Static content is captured in its
// current world placement and redrawn every frame until ClearStatic.
// Allowed inside or outside a frame.
func (s *BatchScheduler) SubmitStatic(p Primitive) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if len(p.Indices()) == 0 {
		return nil
	}
	if !s.dynamic.Fits(p) {
		return tooLarge(p, s.dynamic.Capacity())
	}
	if err := s.addStatic(p); err != nil {
		return err
	}
	s.staticPrims = append(s.staticPrims, p)
	return nil
}

func (s *BatchScheduler) addStatic(p Primitive) error {
	if n := len(s.static); n > 0 && s.static[n-1].TryAdd(p) {
		return nil
	}
	b, err := NewRenderBatch(s.renderer, PoolStatic, s.config)
	if err != nil {
		return err
	}
	s.static = append(s.static, b)
	if !b.TryAdd(p) {
		return tooLarge(p, b.Capacity())
	}
	return nil
}

// StaticBatches returns the number of batches in the static pool.
func (s *BatchScheduler) StaticBatches() int { return len(s.static) }

// StaticGeneration changes every time ClearStatic drops the static pool.
// Callers that track what they put into the pool compare it to notice a
// clear made elsewhere.
func (s *BatchScheduler) StaticGeneration() uint64 { return s.staticGen }

// RemoveStatic takes the given primitives out of the static pool and
// rebuilds the remaining batches, capturing the rest at their current
// placement. It returns how many were found. Inside a frame the removal
// shows from the next BeginFrame.
func (s *BatchScheduler) RemoveStatic(ps ...Primitive) int {
	removed := 0
	kept := make([]Primitive, 0, len(s.staticPrims))
	for _, p := range s.staticPrims {
		if slices.Contains(ps, p) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed > 0 {
		s.rebuildStatic(kept)
	}
	return removed
}

// pruneStatic drops destroyed primitives so they stop drawing.
func (s *BatchScheduler) pruneStatic() {
	var dead []Primitive
	for _, p := range s.staticPrims {
		if d, ok := p.(interface{ IsDestroyed() bool }); ok && d.IsDestroyed() {
			dead = append(dead, p)
		}
	}
	if len(dead) > 0 {
		n := s.RemoveStatic(dead...)
		if s.config.Debug {
			getLogger().Debug("destroyed primitives left the static pool", "count", n)
		}
	}
}

// rebuildStatic replaces the static batches with ones holding prims.
func (s *BatchScheduler) rebuildStatic(prims []Primitive) {
	for _, b := range s.static {
		b.Destroy()
	}
	s.static = s.static[:0]
	s.staticPrims = nil
	for _, p := range prims {
		if err := s.SubmitStatic(p); err != nil {
			getLogger().Warn("static primitive dropped on rebuild", "err", err)
		}
	}
}

// ClearStatic drops all static content.
func (s *BatchScheduler) ClearStatic() {
	for _, b := range s.static {
		b.Destroy()
	}
	s.static = s.static[:0]
	clear(s.staticPrims)
	s.staticPrims = s.staticPrims[:0]
	s.staticGen++
}

// EndFrame draws the remaining dynamic batch and returns the frame's stats.
func (s *BatchScheduler) EndFrame() FrameStats {
	if !s.inFrame {
		getLogger().Warn("EndFrame without BeginFrame")
		return FrameStats{}
	}
	s.draw(s.dynamic)
	s.dynamic.Clear()
	s.inFrame = false
	s.stats.FrameTime = time.Since(s.frameStart)
	s.debugLog(s.stats)
	return s.stats
}

// ApplyConfig replaces the configuration between frames. Batches are
// reallocated with the new capacities and static content is re-added.
func (s *BatchScheduler) ApplyConfig(cfg Config) error {
	if s.inFrame {
		return ErrFrameInProgress
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	dyn, err := NewRenderBatch(s.renderer, PoolDynamic, cfg)
	if err != nil {
		return err
	}
	s.dynamic.Destroy()
	s.dynamic = dyn
	s.config = cfg
	s.applyGlobals()

	s.rebuildStatic(s.staticPrims)
	getLogger().Info("config applied",
		"vertices", cfg.MaxVertices, "indices", cfg.MaxIndices,
		"textures", s.dynamic.Capacity().Textures, "policy", cfg.TexturePolicy,
		"colors", cfg.ColorMode, "culling", cfg.FaceCulling)
	return nil
}

// Destroy releases every batch. The scheduler is unusable afterwards.
func (s *BatchScheduler) Destroy() {
	if s.destroyed {
		return
	}
	s.ClearStatic()
	s.dynamic.Destroy()
	s.inFrame = false
	s.destroyed = true
}

func (s *BatchScheduler) culled(p Primitive) bool {
	cam := s.Camera()
	if cam == nil || !cam.CullEnabled {
		return false
	}
	return !cam.VisibleBounds().Intersects(p.Bounds())
}

// draw renders b with the current camera and records it.
func (s *BatchScheduler) draw(b *RenderBatch) bool {
	if !b.Render(s.Camera()) {
		return false
	}
	info := FlushInfo{
		BatchID:    b.ID,
		Pool:       b.Kind(),
		Primitives: b.Len(),
		Vertices:   len(b.Vertices()),
		Indices:    len(b.Indices()),
		Textures:   len(b.Textures()),
	}
	s.stats.DrawCalls++
	s.stats.Vertices += info.Vertices
	s.stats.Indices += info.Indices
	s.stats.TextureBinds += info.Textures
	if s.config.Debug {
		getLogger().Debug("flush",
			"batch", info.BatchID, "pool", info.Pool,
			"primitives", info.Primitives, "vertices", info.Vertices,
			"indices", info.Indices, "textures", info.Textures)
	}
	if s.observer != nil {
		s.observer.OnFlush(info)
	}
	return true
}

func tooLarge(p Primitive, limits BatchLimits) error {
	return fmt.Errorf("%w: %d vertices, %d indices (limits %d, %d)",
		ErrPrimitiveTooLarge, len(p.Vertices()), len(p.Indices()), limits.Vertices, limits.Indices)
}
